package middleware

import (
	"net/http"

	"personnel-management/internal/shared/apperror"
	"personnel-management/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidToken,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrRequestInProgress = apperror.New(
		apperror.CodeProcessing,
		"The same request is still being processed",
		http.StatusConflict,
	)
	ErrTooManyRequests = apperror.New(
		apperror.CodeTooManyRequests,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

func abortWithError(c *gin.Context, err *apperror.AppError, details any) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, details)
	c.Abort()
}
