package geofence

import (
	"fmt"
	"math"
	"net/http"

	"go-attend/internal/employee"
	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	verifier     Verifier
	employeeRepo employee.Repository
}

func NewHandler(verifier Verifier, employeeRepo employee.Repository) *Handler {
	return &Handler{verifier: verifier, employeeRepo: employeeRepo}
}

// Verify reports whether the caller currently stands inside one of the
// department's geofences. Unlike check-in, a missing department is a
// hard validation failure here.
func (h *Handler) Verify(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.GetString("employee_id")

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	emp, err := h.employeeRepo.FindByIDAndCompany(c.Request.Context(), companyID, employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	if emp.DepartmentID == nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeNoDepartment, "Employee has no department assigned", nil)
		return
	}

	result, err := h.verifier.VerifyForDepartment(
		c.Request.Context(), companyID, emp.DepartmentID.String(), req.Latitude, req.Longitude,
	)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp := VerifyResponse{Verified: result.Verified}
	switch {
	case result.Location != nil && result.Verified:
		resp.Message = "Employee is at the work location"
	case result.Location != nil:
		resp.Message = fmt.Sprintf(
			"Employee is too far away (%.0fm > %dm)",
			math.Round(result.Distance), result.Location.RadiusMeters,
		)
	default:
		resp.Message = "No active work location for this department"
	}
	if result.Location != nil {
		resp.WorkLocation = &VerifyLocationResponse{
			ID:       result.Location.ID.String(),
			Name:     result.Location.Name,
			Distance: math.Round(result.Distance*100) / 100,
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}
