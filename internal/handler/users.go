package handler

import (
	"net/http"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/service"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes public profile browsing.
type UserHandler struct {
	users *service.Users
	posts *service.Posts
}

func NewUserHandler(users *service.Users, posts *service.Posts) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	profiles, err := h.users.All(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.users.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Posts handles GET /api/users/:id/posts.
func (h *UserHandler) Posts(c *gin.Context) {
	p, err := util.ParsePagination(c.Query("limit"), c.Query("offset"), c.Query("order"))
	if err != nil {
		util.Fail(c, err)
		return
	}

	posts, err := h.posts.ByUser(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
