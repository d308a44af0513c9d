package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/middleware"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/store"
	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler lets a user download their own posts. It reads storage
// directly instead of the cached path: exports want the full history, not
// one page.
type ExportHandler struct {
	store store.Store
}

func NewExportHandler(st store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// CSV handles GET /api/export/csv.
func (h *ExportHandler) CSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	posts, err := h.store.FindPosts(c.Request.Context(), store.PostFilter{
		AuthorID: user.ID,
		Order:    "DESC",
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write([]string{"id", "content", "created_at"})
	for _, p := range posts {
		_ = writer.Write([]string{p.ID, p.Content, p.CreatedAt.Format(time.RFC3339)})
	}
}

// XLSX handles GET /api/export/xlsx.
func (h *ExportHandler) XLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Fail(c, util.ErrUnauthorized)
		return
	}

	posts, err := h.store.FindPosts(c.Request.Context(), store.PostFilter{
		AuthorID: user.ID,
		Order:    "DESC",
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Posts"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetSheetRow(sheet, "A1", &[]string{"ID", "Content", "Created At"})
	for i, p := range posts {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(sheet, cell, &[]any{p.ID, p.Content, p.CreatedAt.Format(time.RFC3339)})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
