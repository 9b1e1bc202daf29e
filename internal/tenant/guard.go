package tenant

import "go-attend/internal/shared/apperror"

// EnsureSameTenant rejects cross-tenant parent references. Filtering
// alone hides foreign rows; this makes the invariant explicit on write
// paths (an employee of tenant A must never point at a department of
// tenant B).
func EnsureSameTenant(companyID string, parentCompanyID string) error {
	if parentCompanyID == "" || companyID == parentCompanyID {
		return nil
	}
	return apperror.ErrForbidden
}
