package scope

import "gorm.io/gorm"

// Role is the coarse access level carried in the auth token.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleManager:
		return RoleManager
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleEmployee
	}
}

type Kind int

const (
	// Self limits visibility to the actor's own rows.
	Self Kind = iota
	// Department limits visibility to the actor's department.
	Department
	// All covers every employee of the tenant.
	All
)

// Visibility is the single predicate derived from the actor's role,
// resolved once per request and applied by every list/batch path.
type Visibility struct {
	Kind         Kind
	EmployeeID   string
	DepartmentID string
}

// Resolve maps a role to its visibility. Managers without a department
// fall back to self-only visibility.
func Resolve(role Role, employeeID, departmentID string) Visibility {
	switch role {
	case RoleAdmin:
		return Visibility{Kind: All}
	case RoleManager:
		if departmentID == "" {
			return Visibility{Kind: Self, EmployeeID: employeeID}
		}
		return Visibility{Kind: Department, EmployeeID: employeeID, DepartmentID: departmentID}
	default:
		return Visibility{Kind: Self, EmployeeID: employeeID}
	}
}

// Covers reports whether the target employee/department pair falls
// inside the visibility.
func (v Visibility) Covers(employeeID, departmentID string) bool {
	switch v.Kind {
	case All:
		return true
	case Department:
		return departmentID != "" && departmentID == v.DepartmentID
	default:
		return employeeID == v.EmployeeID
	}
}

// EmployeeFilter scopes a query on a table with an employee_id column.
// The joined employees table supplies department membership.
func (v Visibility) EmployeeFilter(employeeTable string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch v.Kind {
		case All:
			return db
		case Department:
			return db.Where(
				"employee_id IN (SELECT id FROM "+employeeTable+" WHERE department_id = ?)",
				v.DepartmentID,
			)
		default:
			return db.Where("employee_id = ?", v.EmployeeID)
		}
	}
}
