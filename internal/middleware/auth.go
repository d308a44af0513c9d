package middleware

import (
	"strings"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is where the auth middleware stores the resolved user in
// the gin context.
const CurrentUserKey = "currentUser"

// RequireAuth verifies the bearer token and loads the user behind it.
// Token failures never propagate: they become a 401 right here.
func RequireAuth(jwtSecret string, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, jwtSecret, st)
		if !ok {
			util.Fail(c, util.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and stays
// silent otherwise.
func OptionalAuth(jwtSecret string, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveUser(c, jwtSecret, st); ok {
			c.Set(CurrentUserKey, user)
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, jwtSecret string, st store.Store) (*models.User, bool) {
	tokenStr := extractToken(c)
	if tokenStr == "" {
		return nil, false
	}

	claims, err := util.ParseToken(jwtSecret, tokenStr)
	if err != nil {
		return nil, false
	}

	user, err := st.FindUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		return nil, false
	}
	return user, true
}

func extractToken(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// 2) URL query ?token=xxx, for download links that cannot set headers
	if token := c.Query("token"); token != "" {
		return token
	}

	// 3) Cookie
	if cookie, err := c.Cookie("mp_token"); err == nil {
		return cookie
	}

	return ""
}

// CurrentUser retrieves the user placed in the context by RequireAuth or
// OptionalAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
