package attendance

import (
	"context"
	"time"

	"go-attend/internal/scope"
	"go-attend/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	// WithTx returns a repository whose writes and reads run on the
	// given transaction.
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	// FindOpenByEmployeeAndDate returns the most recent open session of
	// the day, ordered by checkin_time descending.
	FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Session, error)
	// FindLatestByEmployeeAndDate returns the day's most recent session,
	// open or closed.
	FindLatestByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Session, error)
	// FindOpenByDate returns every open session of the day with the
	// employee projection joined in.
	FindOpenByDate(ctx context.Context, companyID string, date time.Time) ([]Session, error)
	FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, start, end *time.Time) ([]Session, error)
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

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		Where("checkout_time IS NULL").
		Order("checkin_time DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindLatestByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("work_date = ?", date.Format("2006-01-02")).
		Order("checkin_time DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindOpenByDate(ctx context.Context, companyID string, date time.Time) ([]Session, error) {
	var rows []Session
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("work_date = ?", date.Format("2006-01-02")).
		Where("checkout_time IS NULL").
		Preload("Employee").
		Order("checkin_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, start, end *time.Time) ([]Session, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID), vis.EmployeeFilter("employees")).
		Preload("Employee")

	if start != nil {
		q = q.Where("work_date >= ?", start.Format("2006-01-02"))
	}
	if end != nil {
		q = q.Where("work_date <= ?", end.Format("2006-01-02"))
	}

	var rows []Session
	err := q.Order("checkin_time DESC").Find(&rows).Error
	return rows, err
}
