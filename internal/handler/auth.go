package handler

import (
	"net/http"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/middleware"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/service"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	verifier *service.Verifier
}

func NewAuthHandler(v *service.Verifier) *AuthHandler {
	return &AuthHandler{verifier: v}
}

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Validation("request body must be valid JSON"))
		return
	}

	result, err := h.verifier.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.ErrInvalidCredentials)
		return
	}

	result, err := h.verifier.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Safe()})
}

// Logout handles POST /api/auth/logout. Tokens have no server-side
// revocation; the client discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
