package errors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeAlreadyCheckedIn,
		"You have already checked in today",
		http.StatusBadRequest,
	)

	ErrNotCheckedIn = apperror.New(
		apperror.CodeNotCheckedIn,
		"You have not checked in today",
		http.StatusBadRequest,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
)
