package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/cache"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/config"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			Issuer:      "micropost-test",
			ExpireHours: 1,
		},
		Security: config.SecurityConfig{
			BcryptCost:       bcrypt.MinCost,
			LockoutThreshold: 5,
			LockoutMinutes:   15,
		},
		Cache: config.CacheConfig{TTLSeconds: 300},
		// high enough that tests never trip it
		RateLimit: config.RateLimitConfig{RPS: 10000, Burst: 10000},
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return SetupRouter(cfg, store.NewMemory(), cache.New(5*time.Minute), logger)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func registerUser(t *testing.T, r *gin.Engine, email, password, name string) (userID, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": password, "displayName": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	body := decode(t, w)
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestRegisterValidationAndConflict(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "bad", "password": "x", "displayName": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])

	registerUser(t, r, "ann@x.com", "password1", "Ann")

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "ANN@x.com", "password": "password2", "displayName": "Other Ann",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w)["code"])
}

func TestLoginLockoutFlow(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "a@x.com", "password1", "Ann")

	for i := 1; i <= 5; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "a@x.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w)["code"], "attempt %d", i)
	}

	// locked now: correct password is rejected with 423
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@x.com", "password": "password1",
	})
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", decode(t, w)["code"])
}

func TestLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "b@x.com", "password1", "Bob")

	wUnknown := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "password1",
	})
	wWrong := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "b@x.com", "password": "wrong",
	})

	assert.Equal(t, wWrong.Code, wUnknown.Code)
	assert.JSONEq(t, wWrong.Body.String(), wUnknown.Body.String())
}

func TestMeAndLogout(t *testing.T) {
	r := newTestRouter(t)
	userID, token := registerUser(t, r, "c@x.com", "password1", "Cam")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "c@x.com", user["email"])
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, w)["code"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	r := newTestRouter(t)
	annID, annToken := registerUser(t, r, "ann@x.com", "password1", "Ann")
	_, bobToken := registerUser(t, r, "bob@x.com", "password1", "Bob")

	// content over the limit
	w := doJSON(t, r, http.MethodPost, "/api/posts", annToken, gin.H{
		"content": strings.Repeat("a", 281),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// exactly at the limit
	w = doJSON(t, r, http.MethodPost, "/api/posts", annToken, gin.H{
		"content": strings.Repeat("a", 280),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := decode(t, w)["id"].(string)

	// unauthenticated create
	w = doJSON(t, r, http.MethodPost, "/api/posts", "", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// feed shows the post with its author profile
	w = doJSON(t, r, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	author := feed[0]["author"].(map[string]any)
	assert.Equal(t, "Ann", author["display_name"])
	_, hasEmail := author["email"]
	assert.False(t, hasEmail, "public profile must not expose the email")

	// single post read
	w = doJSON(t, r, http.MethodGet, "/api/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/posts/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// author's page
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%s/posts?limit=10&offset=0&order=desc", annID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%s/posts?limit=abc", annID), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bob cannot delete ann's post
	w = doJSON(t, r, http.MethodDelete, "/api/posts/"+postID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["code"])

	// ann deletes her own post
	w = doJSON(t, r, http.MethodDelete, "/api/posts/"+postID, annToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/posts/"+postID, annToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// gone from the feed
	w = doJSON(t, r, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Empty(t, feed)
}

func TestUserBrowsing(t *testing.T) {
	r := newTestRouter(t)
	annID, _ := registerUser(t, r, "ann@x.com", "password1", "Ann")
	registerUser(t, r, "bob@x.com", "password1", "Bob")

	w := doJSON(t, r, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profiles))
	assert.Len(t, profiles, 2)

	w = doJSON(t, r, http.MethodGet, "/api/users/"+annID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "Ann", profile["display_name"])
	_, hasEmail := profile["email"]
	assert.False(t, hasEmail)

	w = doJSON(t, r, http.MethodGet, "/api/users/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)
	_, token := registerUser(t, r, "ann@x.com", "password1", "Ann")

	w := doJSON(t, r, http.MethodPost, "/api/posts", token, gin.H{"content": "exported post"})
	require.Equal(t, http.StatusCreated, w.Code)

	// token via query parameter, the download-link path
	req := httptest.NewRequest(http.MethodGet, "/api/export/csv?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "exported post")
}
