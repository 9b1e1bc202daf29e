package errors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Request not found",
		http.StatusNotFound,
	)

	ErrAlreadyReviewed = apperror.New(
		apperror.CodeValidationError,
		"Request has already been reviewed",
		http.StatusBadRequest,
	)

	ErrAmountRequired = apperror.New(
		apperror.CodeValidationError,
		"Amount is required for advance requests",
		http.StatusBadRequest,
	)
)
