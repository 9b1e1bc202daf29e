package tenant

import "gorm.io/gorm"

// Scope filters entities that carry a direct company_id column.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// EmployeeScope filters entities without a company column through their
// owning employee.
func EmployeeScope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"employee_id IN (SELECT id FROM employees WHERE company_id = ?)",
			companyID,
		)
	}
}

// DepartmentScope filters entities owned by a department (work locations).
func DepartmentScope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"department_id IN (SELECT id FROM departments WHERE company_id = ?)",
			companyID,
		)
	}
}
