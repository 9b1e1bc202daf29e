package errors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrStatementNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll statement not found",
		http.StatusNotFound,
	)

	ErrStatementPaid = apperror.New(
		apperror.CodeValidationError,
		"Statement has already been paid",
		http.StatusBadRequest,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
)
