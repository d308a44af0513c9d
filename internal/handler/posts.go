package handler

import (
	"net/http"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/middleware"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/service"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/gin-gonic/gin"
)

// PostHandler exposes the feed and post CRUD.
type PostHandler struct {
	posts *service.Posts
}

func NewPostHandler(posts *service.Posts) *PostHandler {
	return &PostHandler{posts: posts}
}

type createPostReq struct {
	Content string `json:"content"`
}

// Feed handles GET /api/posts.
func (h *PostHandler) Feed(c *gin.Context) {
	p, err := util.ParsePagination(c.Query("limit"), c.Query("offset"), c.Query("order"))
	if err != nil {
		util.Fail(c, err)
		return
	}

	feed, err := h.posts.Feed(c.Request.Context(), p)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Validation("request body must be valid JSON"))
		return
	}

	post, err := h.posts.Create(c.Request.Context(), user.ID, req.Content)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Delete handles DELETE /api/posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
