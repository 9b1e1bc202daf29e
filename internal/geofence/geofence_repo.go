package geofence

import (
	"context"

	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=geofence_repo.go -destination=mock/geofence_repo_mock.go -package=mock
type Repository interface {
	FindActiveByDepartment(ctx context.Context, companyID, departmentID string) ([]WorkLocation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveByDepartment(ctx context.Context, companyID, departmentID string) ([]WorkLocation, error) {
	var rows []WorkLocation
	err := r.db.WithContext(ctx).
		Scopes(tenant.DepartmentScope(companyID)).
		Where("department_id = ?", departmentID).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
