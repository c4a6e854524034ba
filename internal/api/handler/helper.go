// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/api/middleware"
	"github.com/resumeforge/resumeforge/pkg/errors"
)

// Pagination configuration
const (
	defaultPage     = 1
	defaultPageSize = 20
	minPageSize     = 1
	maxPageSize     = 100
)

// parsePagination reads page/page_size query parameters with clamping.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = defaultPage
	}
	if pageSize < minPageSize || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// ownerID returns the owner key the Owner middleware resolved.
func ownerID(c *gin.Context) string {
	return c.GetString(middleware.OwnerKey)
}

// respondError writes a coded error response. Non-AppError failures
// surface as internal errors without leaking their message.
func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    errors.ErrCodeInternal,
		"message": "Internal server error",
	})
}
