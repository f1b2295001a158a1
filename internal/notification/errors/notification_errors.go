package notificationerrors

import (
	"net/http"

	"personnel-management/internal/shared/apperror"
)

const CodeUnknownDecision = "UNKNOWN_DECISION"

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"notification type is required",
		http.StatusBadRequest,
	)
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrUnknownDecision = apperror.New(
		CodeUnknownDecision,
		"leave decision status is not Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrStreamUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"notification stream is unavailable",
		http.StatusServiceUnavailable,
	)
	ErrPersistenceFailure = apperror.New(
		apperror.CodeServiceUnavailable,
		"notification storage is unavailable",
		http.StatusServiceUnavailable,
	)
)
