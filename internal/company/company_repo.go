package company

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	FindActiveByID(ctx context.Context, id string) (*Company, error)
	FindActiveBySubdomain(ctx context.Context, subdomain string) (*Company, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveByID(ctx context.Context, id string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_active = ?", true).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindActiveBySubdomain matches the company by its registered domain or,
// failing that, by case-insensitive name.
func (r *repository) FindActiveBySubdomain(ctx context.Context, subdomain string) (*Company, error) {
	var c Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("domain = ? OR LOWER(name) = LOWER(?)", subdomain, subdomain).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
