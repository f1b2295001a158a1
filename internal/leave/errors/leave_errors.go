package leaveerrors

import (
	"net/http"

	"personnel-management/internal/shared/apperror"
)

const (
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidRange        = "INVALID_RANGE"
	CodeAlreadyProcessed    = "ALREADY_PROCESSED"
	CodeMissingReason       = "MISSING_REASON"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeInvalidDecision     = "INVALID_DECISION"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		CodeInvalidRange,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		CodeInsufficientBalance,
		"not enough leave days remaining",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		CodeAlreadyProcessed,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrMissingReason = apperror.New(
		CodeMissingReason,
		"reject_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		CodeInvalidTransition,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		CodeInvalidDecision,
		"decision must be Approved or Rejected",
		http.StatusBadRequest,
	)
	ErrPersistenceFailure = apperror.New(
		apperror.CodeServiceUnavailable,
		"leave storage is unavailable",
		http.StatusServiceUnavailable,
	)
)
