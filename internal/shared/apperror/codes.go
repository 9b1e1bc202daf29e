package apperror

const (
	// Client errors (4xx)
	CodeValidationError  = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	CodeNotCheckedIn     = "NOT_CHECKED_IN"
	CodeNoDepartment     = "NO_DEPARTMENT"
	CodeNoLocation       = "NO_LOCATION"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
