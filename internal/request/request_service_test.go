package request

import (
	"context"
	"testing"
	"time"

	"go-attend/internal/employee"
	requesterrors "go-attend/internal/request/errors"
	"go-attend/internal/scope"
	"go-attend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, r *Request) error
	updateFn   func(ctx context.Context, r *Request) error
	findByIDFn func(ctx context.Context, companyID, id string) (*Request, error)
	findAllFn  func(ctx context.Context, companyID string, vis scope.Visibility, status string) ([]Request, error)
	sumFn      func(ctx context.Context, companyID, employeeID string, periodEnd time.Time) (float64, error)
}

func (f *fakeRepo) Create(ctx context.Context, r *Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, r *Request) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Request, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, status string) ([]Request, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, vis, status)
	}
	return nil, nil
}

func (f *fakeRepo) SumApprovedAdvances(ctx context.Context, companyID, employeeID string, periodEnd time.Time) (float64, error) {
	if f.sumFn != nil {
		return f.sumFn(ctx, companyID, employeeID, periodEnd)
	}
	return 0, nil
}

type fakePenaltyRepo struct {
	created []Penalty
}

func (f *fakePenaltyRepo) Create(ctx context.Context, p *Penalty) error {
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePenaltyRepo) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Penalty, error) {
	return nil, nil
}

func (f *fakePenaltyRepo) SumActiveByPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (float64, error) {
	return 0, nil
}

type fakeEmployeeRepo struct {
	findByIDFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FindActiveByDepartment(ctx context.Context, companyID, departmentID string) ([]employee.Employee, error) {
	return nil, nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	f.published = append(f.published, eventType)
	return f.err
}

var (
	companyID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	employeeID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	reviewerID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func testEmployee() *employee.Employee {
	return &employee.Employee{
		ID:        employeeID,
		CompanyID: companyID,
		FullName:  "Aziz Karimov",
	}
}

func newTestService(repo Repository, penRepo PenaltyRepository, empRepo employee.Repository, pub *fakePublisher) *service {
	return &service{
		repo:         repo,
		penaltyRepo:  penRepo,
		employeeRepo: empRepo,
		publisher:    pub,
		logger:       zap.NewNop(),
		now:          func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func pendingRequest() *Request {
	return &Request{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Type:       TypeVacation,
		StartDate:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:     StatusPending,
		Employee:   &EmployeeRef{ID: employeeID, FullName: "Aziz Karimov"},
	}
}

func TestCreate_AdvanceWithoutAmount(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), companyID.String(), employeeID.String(), CreateRequest{
		Type:      TypeAdvance,
		StartDate: "2025-03-15",
	})
	assert.ErrorIs(t, err, requesterrors.ErrAmountRequired)
}

func TestCreate_Success(t *testing.T) {
	var created *Request
	repo := &fakeRepo{
		createFn: func(ctx context.Context, r *Request) error {
			created = r
			return nil
		},
	}
	empRepo := &fakeEmployeeRepo{
		findByIDFn: func(ctx context.Context, cID, id string) (*employee.Employee, error) {
			return testEmployee(), nil
		},
	}

	svc := newTestService(repo, &fakePenaltyRepo{}, empRepo, &fakePublisher{})

	amount := 20000.0
	resp, err := svc.Create(context.Background(), companyID.String(), employeeID.String(), CreateRequest{
		Type:      TypeAdvance,
		Amount:    &amount,
		StartDate: "2025-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	require.NotNil(t, created)
	assert.Equal(t, TypeAdvance, created.Type)
	assert.Equal(t, "2025-03-15", created.StartDate.Format("2006-01-02"))
}

func TestApprove_EmitsEvent(t *testing.T) {
	row := pendingRequest()
	var updated *Request
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, cID, id string) (*Request, error) {
			return row, nil
		},
		updateFn: func(ctx context.Context, r *Request) error {
			updated = r
			return nil
		},
	}
	pub := &fakePublisher{}

	svc := newTestService(repo, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, pub)

	resp, err := svc.Approve(context.Background(), companyID.String(), reviewerID.String(), row.ID.String(), ReviewRequest{Comment: "ok"})
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, resp.Status)
	require.NotNil(t, updated)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, reviewerID, *updated.ReviewedBy)
	assert.Equal(t, []string{"request_approved"}, pub.published)
}

func TestApprove_PublisherFailureDoesNotSurface(t *testing.T) {
	row := pendingRequest()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, cID, id string) (*Request, error) {
			return row, nil
		},
	}
	pub := &fakePublisher{err: assert.AnError}

	svc := newTestService(repo, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, pub)

	resp, err := svc.Approve(context.Background(), companyID.String(), reviewerID.String(), row.ID.String(), ReviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
}

func TestReject_AlreadyReviewed(t *testing.T) {
	row := pendingRequest()
	row.Status = StatusApproved
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, cID, id string) (*Request, error) {
			return row, nil
		},
	}

	svc := newTestService(repo, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, &fakePublisher{})

	_, err := svc.Reject(context.Background(), companyID.String(), reviewerID.String(), row.ID.String(), ReviewRequest{})
	assert.ErrorIs(t, err, requesterrors.ErrAlreadyReviewed)
}

func TestReview_UnknownRequest(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, &fakePublisher{})

	_, err := svc.Approve(context.Background(), companyID.String(), reviewerID.String(), uuid.NewString(), ReviewRequest{})
	assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)
}

func TestCreatePenalty_NormalizesPeriod(t *testing.T) {
	penRepo := &fakePenaltyRepo{}
	empRepo := &fakeEmployeeRepo{
		findByIDFn: func(ctx context.Context, cID, id string) (*employee.Employee, error) {
			return testEmployee(), nil
		},
	}

	svc := newTestService(&fakeRepo{}, penRepo, empRepo, &fakePublisher{})

	resp, err := svc.CreatePenalty(context.Background(), companyID.String(), reviewerID.String(), CreatePenaltyRequest{
		EmployeeID: employeeID.String(),
		Amount:     5000,
		Period:     "2025-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-03", resp.Period)
	require.Len(t, penRepo.created, 1)
	assert.Equal(t, "2025-03-01", penRepo.created[0].Period.Format("2006-01-02"))
	assert.Equal(t, PenaltyStatusActive, penRepo.created[0].Status)
}

func TestCreatePenalty_BadPeriod(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakePenaltyRepo{}, &fakeEmployeeRepo{}, &fakePublisher{})

	_, err := svc.CreatePenalty(context.Background(), companyID.String(), reviewerID.String(), CreatePenaltyRequest{
		EmployeeID: employeeID.String(),
		Amount:     5000,
		Period:     "March 2025",
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}
