package service

import (
	"context"
	"testing"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestVerifier(t *testing.T) (*Verifier, *store.Memory, *cache.Cache) {
	t.Helper()
	st := store.NewMemory()
	ch := cache.New(time.Minute)
	v := NewVerifier(st, ch, VerifierConfig{
		TokenSecret: "test-secret",
		TokenIssuer: "test",
		BcryptCost:  bcrypt.MinCost,
	})
	return v, st, ch
}

func setClock(v *Verifier, at time.Time) {
	v.now = func() time.Time { return at }
}

func TestRegisterAndAuthenticate(t *testing.T) {
	v, _, _ := newTestVerifier(t)
	ctx := context.Background()

	reg, err := v.Register(ctx, "Ann@X.com", "password1", "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "ann@x.com", reg.User.Email)
	assert.Equal(t, models.StatusActive, reg.User.Status)

	res, err := v.Authenticate(ctx, "ann@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	claims, err := util.ParseToken("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestAuthenticate_LockoutScenario(t *testing.T) {
	v, st, _ := newTestVerifier(t)
	ctx := context.Background()
	start := time.Now()
	setClock(v, start)

	reg, err := v.Register(ctx, "a@x.com", "password1", "Ann")
	require.NoError(t, err)

	// threshold failures lock the account; each one is InvalidCredentials
	for i := 0; i < DefaultLockoutThreshold; i++ {
		_, err := v.Authenticate(ctx, "a@x.com", "wrong")
		assert.Equal(t, util.ErrInvalidCredentials, err, "attempt %d", i+1)
	}

	user, err := st.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultLockoutThreshold, user.FailedLoginCount)
	require.NotNil(t, user.LockedUntil)
	assert.Equal(t, start.Add(DefaultLockoutWindow), *user.LockedUntil)

	// even the correct password fails while locked
	_, err = v.Authenticate(ctx, "a@x.com", "password1")
	assert.Equal(t, util.ErrAccountLocked, err)

	// after the window elapses the correct password succeeds again
	setClock(v, start.Add(DefaultLockoutWindow))
	res, err := v.Authenticate(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
}

func TestAuthenticate_SuccessResetsLockoutState(t *testing.T) {
	v, st, _ := newTestVerifier(t)
	ctx := context.Background()

	reg, err := v.Register(ctx, "b@x.com", "password1", "Bob")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := v.Authenticate(ctx, "b@x.com", "wrong")
		assert.Equal(t, util.ErrInvalidCredentials, err)
	}

	user, err := st.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, user.FailedLoginCount)

	_, err = v.Authenticate(ctx, "b@x.com", "password1")
	require.NoError(t, err)

	user, err = st.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedLoginCount)
	assert.Nil(t, user.LockedUntil)
}

func TestAuthenticate_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	v, _, _ := newTestVerifier(t)
	ctx := context.Background()

	_, err := v.Register(ctx, "c@x.com", "password1", "Cam")
	require.NoError(t, err)

	_, errUnknown := v.Authenticate(ctx, "nobody@x.com", "password1")
	_, errWrongPw := v.Authenticate(ctx, "c@x.com", "wrong")

	// identical error values: same code, same message, no enumeration hint
	assert.Equal(t, errWrongPw, errUnknown)
	assert.Equal(t, util.ErrInvalidCredentials, errUnknown)
}

func TestAuthenticate_InputShapeCheckedBeforeLookup(t *testing.T) {
	v, _, _ := newTestVerifier(t)
	ctx := context.Background()

	_, err := v.Authenticate(ctx, "not-an-email", "password1")
	assert.Equal(t, util.ErrInvalidCredentials, err)

	_, err = v.Authenticate(ctx, "a@x.com", "")
	assert.Equal(t, util.ErrInvalidCredentials, err)
}

func TestAuthenticate_NonActiveUserRejected(t *testing.T) {
	v, st, _ := newTestVerifier(t)
	ctx := context.Background()

	reg, err := v.Register(ctx, "d@x.com", "password1", "Dee")
	require.NoError(t, err)

	suspended := models.StatusSuspended
	_, err = st.UpdateUser(ctx, reg.User.ID, store.UserPatch{Status: &suspended})
	require.NoError(t, err)

	_, err = v.Authenticate(ctx, "d@x.com", "password1")
	assert.Equal(t, util.ErrInvalidCredentials, err)
}

func TestRegister_CollectsAllViolations(t *testing.T) {
	v, _, _ := newTestVerifier(t)

	_, err := v.Register(context.Background(), "nope", "short", "X")
	require.Error(t, err)

	appErr, ok := err.(*util.AppError)
	require.True(t, ok)
	assert.Equal(t, util.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "email")
	assert.Contains(t, appErr.Message, "password")
	assert.Contains(t, appErr.Message, "display_name")
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	v, _, _ := newTestVerifier(t)
	ctx := context.Background()

	_, err := v.Register(ctx, "e@x.com", "password1", "Eve")
	require.NoError(t, err)

	_, err = v.Register(ctx, " E@X.COM ", "password2", "Evil")
	require.Error(t, err)
	appErr, ok := err.(*util.AppError)
	require.True(t, ok)
	assert.Equal(t, util.CodeConflict, appErr.Code)
}

func TestRegister_InvalidatesAllUsersCache(t *testing.T) {
	v, st, ch := newTestVerifier(t)
	ctx := context.Background()

	users := NewUsers(st, ch, time.Minute)
	_, err := users.All(ctx)
	require.NoError(t, err)
	_, cached := ch.Get(cache.KeyAllUsers)
	require.True(t, cached)

	_, err = v.Register(ctx, "f@x.com", "password1", "Fay")
	require.NoError(t, err)

	_, cached = ch.Get(cache.KeyAllUsers)
	assert.False(t, cached)

	profiles, err := users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestAuthenticate_ConcurrentFailuresDoNotLoseUpdates(t *testing.T) {
	v, st, _ := newTestVerifier(t)
	ctx := context.Background()

	reg, err := v.Register(ctx, "g@x.com", "password1", "Gil")
	require.NoError(t, err)

	const attempts = 4
	done := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, _ = v.Authenticate(ctx, "g@x.com", "wrong")
			done <- struct{}{}
		}()
	}
	for i := 0; i < attempts; i++ {
		<-done
	}

	user, err := st.FindUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, attempts, user.FailedLoginCount)
}
