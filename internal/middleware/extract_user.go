package middleware

import (
	"net/http"

	"personnel-management/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

var ErrUserNotAuthenticated = apperror.New(
	apperror.CodeUnauthorized,
	"User is not authenticated",
	http.StatusUnauthorized,
)

// ExtractUserID rejects requests that reached a handler without an
// authenticated user id.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			abortWithError(c, ErrUserNotAuthenticated, nil)
			return
		}

		c.Set(ContextUserIDValidated, userID)
		c.Next()
	}
}
