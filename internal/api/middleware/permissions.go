package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/models"
)

// isSafeMethod reports whether the request only reads.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOrReadOnly guards the catalog resources (categories, genres, titles):
// anyone may read, only admins may write. Anonymous writes are a permission
// failure, not a credential one.
func AdminOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		user := CurrentUser(c)
		if user == nil || !user.Role.CanAdminister() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthenticatedOrReadOnly guards reviews and comments: reads are public,
// writes need a logged-in user. Object-level ownership is checked in the
// handlers, where the object is at hand.
func AuthenticatedOrReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if CurrentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin guards user administration. Runs after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.Role.CanAdminister() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CanModifyObject is the owner-or-staff predicate for object-level writes:
// the author may touch their own reviews and comments, moderators and admins
// may touch anyone's.
func CanModifyObject(user *models.User, authorID string) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || user.Role.CanModerate()
}
