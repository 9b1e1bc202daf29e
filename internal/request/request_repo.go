package request

import (
	"context"
	"time"

	"go-attend/internal/scope"
	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, r *Request) error
	Update(ctx context.Context, r *Request) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error)
	FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, status string) ([]Request, error)
	// SumApprovedAdvances totals approved advance requests with a start
	// date at or before the given period end. There is deliberately no
	// lower bound, so an advance keeps deducting in later periods until
	// cleared.
	SumApprovedAdvances(ctx context.Context, companyID, employeeID string, periodEnd time.Time) (float64, error)
}

type PenaltyRepository interface {
	Create(ctx context.Context, p *Penalty) error
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Penalty, error)
	// SumActiveByPeriod totals active penalties booked for exactly the
	// given period (first of month).
	SumActiveByPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) Update(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Preload("Employee").
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, status string) ([]Request, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID), vis.EmployeeFilter("employees")).
		Preload("Employee")

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []Request
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) SumApprovedAdvances(ctx context.Context, companyID, employeeID string, periodEnd time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&Request{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("type = ?", TypeAdvance).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", periodEnd.Format("2006-01-02")).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

type penaltyRepository struct {
	db *gorm.DB
}

func NewPenaltyRepository(db *gorm.DB) PenaltyRepository {
	return &penaltyRepository{db: db}
}

func (r *penaltyRepository) Create(ctx context.Context, p *Penalty) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *penaltyRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Penalty, error) {
	var rows []Penalty
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("period DESC").
		Find(&rows).Error
	return rows, err
}

func (r *penaltyRepository) SumActiveByPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&Penalty{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", PenaltyStatusActive).
		Where("period = ?", period.Format("2006-01-02")).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
