package payroll

import (
	"context"
	"time"

	"go-attend/internal/scope"
	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	// WithTx returns a repository whose writes and reads run on the
	// given transaction.
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *Statement) error
	Update(ctx context.Context, s *Statement) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Statement, error)
	FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (*Statement, error)
	FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, period *time.Time) ([]Statement, error)
	ReplaceLines(ctx context.Context, statementID string, lines []CalcLine) error
	// SumClosedHours totals total_hours over checked-out sessions whose
	// work date falls inside [start, end].
	SumClosedHours(ctx context.Context, companyID, employeeID string, start, end time.Time) (float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, s *Statement) error {
	return r.db.WithContext(ctx).Omit("Lines", "Employee").Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Statement) error {
	return r.db.WithContext(ctx).Omit("Lines", "Employee").Save(s).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Statement, error) {
	var s Statement
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Preload("Employee").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (*Statement, error) {
	var s Statement
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("period = ?", period.Format("2006-01-02")).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, period *time.Time) ([]Statement, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID), vis.EmployeeFilter("employees")).
		Preload("Employee")

	if period != nil {
		q = q.Where("period = ?", period.Format("2006-01-02"))
	}

	var rows []Statement
	err := q.Order("period DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ReplaceLines(ctx context.Context, statementID string, lines []CalcLine) error {
	if err := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Delete(&CalcLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) SumClosedHours(ctx context.Context, companyID, employeeID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Table("attendance_sessions").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("checkout_time IS NOT NULL").
		Where("work_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(total_hours), 0)").
		Scan(&total).Error
	return total, err
}
