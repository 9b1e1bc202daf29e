package request

import (
	"context"
	"errors"
	"time"

	"go-attend/internal/employee"
	"go-attend/internal/events"
	requesterrors "go-attend/internal/request/errors"
	"go-attend/internal/scope"
	"go-attend/internal/shared/apperror"
	"go-attend/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, employeeID string, req CreateRequest) (RequestResponse, error)
	List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]RequestResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string, req ReviewRequest) (RequestResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string, req ReviewRequest) (RequestResponse, error)
	CreatePenalty(ctx context.Context, companyID, actorID string, req CreatePenaltyRequest) (PenaltyResponse, error)
}

type service struct {
	repo         Repository
	penaltyRepo  PenaltyRepository
	employeeRepo employee.Repository
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	repo Repository,
	penaltyRepo PenaltyRepository,
	employeeRepo employee.Repository,
	publisher events.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		repo:         repo,
		penaltyRepo:  penaltyRepo,
		employeeRepo: employeeRepo,
		publisher:    publisher,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, companyID, employeeID string, req CreateRequest) (RequestResponse, error) {
	if req.Type == TypeAdvance && req.Amount == nil {
		return RequestResponse{}, requesterrors.ErrAmountRequired
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return RequestResponse{}, apperror.InvalidField("Start Date")
	}

	var endDate *time.Time
	if req.EndDate != nil {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return RequestResponse{}, apperror.InvalidField("End Date")
		}
		endDate = &t
	}

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return RequestResponse{}, mapNotFound(err, apperror.ErrNotFound)
	}

	row := &Request{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: emp.ID,
		Type:       req.Type,
		Reason:     req.Reason,
		Amount:     req.Amount,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return RequestResponse{}, err
	}

	row.Employee = &EmployeeRef{ID: emp.ID, FullName: emp.FullName, DepartmentID: emp.DepartmentID}
	return mapToResponse(*row), nil
}

func (s *service) List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]RequestResponse, error) {
	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return nil, mapNotFound(err, apperror.ErrNotFound)
	}
	vis := scope.Resolve(scope.ParseRole(role), actorID, actor.DepartmentIDString())

	rows, err := s.repo.FindAllByCompany(ctx, companyID, vis, filter.Status)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, mapToResponse(rows[i]))
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string, req ReviewRequest) (RequestResponse, error) {
	return s.review(ctx, companyID, actorID, id, req, StatusApproved, events.TypeRequestApproved)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string, req ReviewRequest) (RequestResponse, error) {
	return s.review(ctx, companyID, actorID, id, req, StatusRejected, events.TypeRequestRejected)
}

func (s *service) review(ctx context.Context, companyID, actorID, id string, req ReviewRequest, status, eventType string) (RequestResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RequestResponse{}, mapNotFound(err, requesterrors.ErrRequestNotFound)
	}
	if row.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrAlreadyReviewed
	}

	now := s.now()
	reviewer := uuid.MustParse(actorID)
	row.Status = status
	row.ReviewedBy = &reviewer
	row.ReviewedAt = &now
	if req.Comment != "" {
		row.ReviewComment = &req.Comment
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return RequestResponse{}, err
	}

	s.notifyReviewed(ctx, eventType, row)
	return mapToResponse(*row), nil
}

// notifyReviewed is best effort. A dead broker never turns a completed
// review into an error.
func (s *service) notifyReviewed(ctx context.Context, eventType string, row *Request) {
	name := ""
	if row.Employee != nil {
		name = row.Employee.FullName
	}

	err := s.publisher.Publish(ctx, eventType, row.EmployeeID.String(), events.RequestReviewedEvent{
		EventType:    eventType,
		RequestID:    row.ID.String(),
		EmployeeID:   row.EmployeeID.String(),
		EmployeeName: name,
		ReviewedBy:   row.ReviewedBy.String(),
	})
	if err != nil {
		s.logger.Warn("request review event dropped",
			zap.String("request_id", row.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) CreatePenalty(ctx context.Context, companyID, actorID string, req CreatePenaltyRequest) (PenaltyResponse, error) {
	period, err := time.Parse("2006-01", req.Period)
	if err != nil {
		return PenaltyResponse{}, apperror.InvalidField("Period")
	}

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PenaltyResponse{}, mapNotFound(err, apperror.ErrNotFound)
	}
	if err := tenant.EnsureSameTenant(companyID, emp.CompanyID.String()); err != nil {
		return PenaltyResponse{}, err
	}

	actor := uuid.MustParse(actorID)
	row := &Penalty{
		ID:         uuid.New(),
		CompanyID:  uuid.MustParse(companyID),
		EmployeeID: emp.ID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		Period:     period,
		Status:     PenaltyStatusActive,
		CreatedBy:  &actor,
	}
	if err := s.penaltyRepo.Create(ctx, row); err != nil {
		return PenaltyResponse{}, err
	}

	return PenaltyResponse{
		ID:         row.ID.String(),
		EmployeeID: row.EmployeeID.String(),
		Amount:     row.Amount,
		Reason:     row.Reason,
		Period:     row.Period.Format("2006-01"),
		Status:     row.Status,
	}, nil
}

func mapNotFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func mapToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID.String(),
		EmployeeID:    r.EmployeeID.String(),
		Type:          r.Type,
		Reason:        r.Reason,
		Amount:        r.Amount,
		StartDate:     r.StartDate.Format("2006-01-02"),
		Status:        r.Status,
		ReviewComment: r.ReviewComment,
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	if r.EndDate != nil {
		v := r.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
