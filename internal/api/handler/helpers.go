package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/service"
	"reviewhub/internal/validate"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// parsePagination reads offset/limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = defaultPageLimit

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxPageLimit {
			limit = parsed
		}
	}
	return offset, limit
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// bindJSON binds the payload and writes the field-scoped 400 on failure.
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, validate.FromBinding(err))
		return false
	}
	return true
}

// abortWithError maps service errors onto the response taxonomy.
func abortWithError(c *gin.Context, err error) {
	if ve, ok := validate.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, ve)
		return
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReviewExists):
		c.JSON(http.StatusBadRequest, validate.Errors{
			"detail": {"You have already written a review for this title."},
		})
	case errors.Is(err, service.ErrCodeMismatch):
		c.JSON(http.StatusBadRequest, validate.Errors{
			"confirmation_code": {"This is an invalid value."},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
