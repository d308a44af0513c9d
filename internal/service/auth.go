// Package service holds the two cores of the application: the credential
// verifier with its account-lockout state machine, and the cache-aside
// accessors for user and post reads.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultLockoutThreshold = 5
	DefaultLockoutWindow    = 15 * time.Minute
)

// VerifierConfig tunes the credential verifier. Zero values fall back to
// the defaults above.
type VerifierConfig struct {
	TokenSecret      string
	TokenIssuer      string
	TokenTTL         time.Duration
	BcryptCost       int
	LockoutThreshold int
	LockoutWindow    time.Duration
}

// AuthResult is what a successful authentication or registration returns:
// a sanitized user view plus a signed bearer token.
type AuthResult struct {
	User  models.SafeUser `json:"user"`
	Token string          `json:"token"`
}

// Verifier validates credentials against stored records, enforces account
// lockout after repeated failures, and issues session tokens.
type Verifier struct {
	store store.Store
	cache *cache.Cache
	cfg   VerifierConfig

	// failed-login bookkeeping is a read-modify-write on the user record;
	// handlers run in parallel goroutines, so updates for one account are
	// serialized here to avoid lost increments.
	accountMu sync.Map // normalized email -> *sync.Mutex

	now func() time.Time
}

func NewVerifier(st store.Store, ch *cache.Cache, cfg VerifierConfig) *Verifier {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = DefaultLockoutThreshold
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = DefaultLockoutWindow
	}
	return &Verifier{
		store: st,
		cache: ch,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (v *Verifier) lockFor(email string) *sync.Mutex {
	mu, _ := v.accountMu.LoadOrStore(email, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Authenticate checks email+password against the stored record. Unknown
// emails, wrong passwords and non-active accounts all fail with the same
// InvalidCredentials error; a locked account fails with AccountLocked
// until the lock window elapses, regardless of credential correctness.
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	email = util.NormalizeEmail(email)

	// shape check before any lookup
	if msgs := util.Validate(util.LoginInput{Email: email, Password: password}); len(msgs) > 0 {
		return nil, util.ErrInvalidCredentials
	}

	mu := v.lockFor(email)
	mu.Lock()
	defer mu.Unlock()

	user, err := v.store.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	// Always run a bcrypt comparison. When the email has no record the
	// fixed dummy hash keeps the code path and timing close to a real
	// check, so the response does not reveal which emails exist.
	hash := util.DummyHash
	if user != nil && user.Status == models.StatusActive {
		hash = user.PasswordHash
	}
	match := util.CheckPassword(password, hash)

	if user == nil || user.Status != models.StatusActive {
		return nil, util.ErrInvalidCredentials
	}

	now := v.now()
	if user.LockedAt(now) {
		return nil, util.ErrAccountLocked
	}

	if !match {
		v.recordFailure(ctx, user, now)
		return nil, util.ErrInvalidCredentials
	}

	// success resets the lockout bookkeeping unconditionally
	zero := 0
	if _, err := v.store.UpdateUser(ctx, user.ID, store.UserPatch{
		FailedLoginCount: &zero,
		SetLockedUntil:   true,
		LockedUntil:      nil,
	}); err != nil {
		return nil, err
	}
	user.FailedLoginCount = 0
	user.LockedUntil = nil

	return v.result(user)
}

// recordFailure increments the failure counter and locks the account for
// the configured window once the threshold is reached. Persisting the
// bookkeeping is best effort: a storage hiccup must not change the
// credential failure returned to the caller.
func (v *Verifier) recordFailure(ctx context.Context, user *models.User, now time.Time) {
	n := user.FailedLoginCount + 1
	patch := store.UserPatch{FailedLoginCount: &n}
	if n >= v.cfg.LockoutThreshold {
		until := now.Add(v.cfg.LockoutWindow)
		patch.SetLockedUntil = true
		patch.LockedUntil = &until
	}
	_, _ = v.store.UpdateUser(ctx, user.ID, patch)
}

// Register validates all inputs at once, creates an ACTIVE record with a
// hashed password and returns the sanitized user plus a token. The "all
// users" cache entry is invalidated so the new account shows up in lists.
func (v *Verifier) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	email = util.NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	if msgs := util.Validate(util.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}); len(msgs) > 0 {
		return nil, util.Validation(strings.Join(msgs, "; "))
	}

	if _, err := v.store.FindUserByEmail(ctx, email); err == nil {
		return nil, util.Conflict("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password, v.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Status:       models.StatusActive,
		CreatedAt:    v.now(),
	}
	if err := v.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, util.Conflict("email already registered")
		}
		return nil, err
	}

	v.cache.Delete(cache.KeyAllUsers)

	return v.result(user)
}

func (v *Verifier) result(user *models.User) (*AuthResult, error) {
	token, err := util.GenerateToken(v.cfg.TokenSecret, v.cfg.TokenIssuer, user.ID, user.Email, v.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user.Safe(), Token: token}, nil
}
