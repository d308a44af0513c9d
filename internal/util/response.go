package util

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Fail writes the error response envelope {"error": ..., "code": ...}.
// Known operational errors keep their declared status and code; anything
// else becomes a 500 with a generic message in release mode, or the
// original message plus a stack trace otherwise.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	if gin.Mode() == gin.ReleaseMode {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  CodeInternal,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": err.Error(),
		"code":  CodeInternal,
		"stack": string(debug.Stack()),
	})
}
