package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	attendanceerrors "go-attend/internal/attendance/errors"
	"go-attend/internal/employee"
	"go-attend/internal/events"
	"go-attend/internal/faceid"
	"go-attend/internal/geofence"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/schedule"
	"go-attend/internal/scope"
	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (SessionResponse, error)
	CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (SessionResponse, error)
	Current(ctx context.Context, companyID, employeeID string) (CurrentStatusResponse, error)
	Active(ctx context.Context, companyID, actorID, role, departmentFilter string) ([]ActiveSessionResponse, error)
	List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]SessionResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	scheduleRepo schedule.Repository
	verifier     geofence.Verifier
	face         faceid.Client
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	scheduleRepo schedule.Repository,
	verifier geofence.Verifier,
	face faceid.Client,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		scheduleRepo: scheduleRepo,
		verifier:     verifier,
		face:         face,
		outbox:       outbox,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CheckIn(ctx context.Context, companyID, employeeID string, req CheckInRequest) (SessionResponse, error) {
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return SessionResponse{}, mapRepositoryError(err)
	}

	lateness := s.evaluateLateness(ctx, companyID, emp, now)

	row := &Session{
		ID:               uuid.New(),
		CompanyID:        uuid.MustParse(companyID),
		EmployeeID:       emp.ID,
		WorkDate:         today,
		CheckinTime:      now,
		CheckinPhotoURL:  req.PhotoRef,
		CheckinLatitude:  req.Latitude,
		CheckinLongitude: req.Longitude,
		IsLate:           lateness.IsLate,
		LateMinutes:      lateness.LateMinutes,
	}

	s.verifyLocation(ctx, companyID, emp, req, row)
	row.FaceVerified = s.verifyIdentity(ctx, employeeID, req)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SessionResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindOpenByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionResponse{}, err
	}
	if existing != nil {
		return SessionResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	// The unique index closes the race window the pre-read leaves open:
	// the losing writer of two concurrent check-ins fails here.
	if err := qtx.Create(ctx, row); err != nil {
		return SessionResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.TypeCheckin, row.ID.String(), events.CheckinEvent{
		EventType:    events.TypeCheckin,
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.FullName,
		DepartmentID: emp.DepartmentIDString(),
		CheckinTime:  row.CheckinTime,
		IsLate:       row.IsLate,
		LateMinutes:  row.LateMinutes,
	}); err != nil {
		return SessionResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, companyID, employeeID string, req CheckOutRequest) (SessionResponse, error) {
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		return SessionResponse{}, mapRepositoryError(err)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return SessionResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindOpenByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrNotCheckedIn
		}
		return SessionResponse{}, err
	}

	row.CheckoutTime = &now
	row.CheckoutPhotoURL = req.PhotoRef
	row.CheckoutLatitude = req.Latitude
	row.CheckoutLongitude = req.Longitude
	totalHours := round2(now.Sub(row.CheckinTime).Hours())
	row.TotalHours = &totalHours

	if err := qtx.Update(ctx, row); err != nil {
		return SessionResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, events.TypeCheckout, row.ID.String(), events.CheckoutEvent{
		EventType:    events.TypeCheckout,
		EmployeeID:   emp.ID.String(),
		EmployeeName: emp.FullName,
		CheckoutTime: now,
		TotalHours:   totalHours,
	}); err != nil {
		return SessionResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return SessionResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Current(ctx context.Context, companyID, employeeID string) (CurrentStatusResponse, error) {
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	row, err := s.repo.FindLatestByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CurrentStatusResponse{IsCheckedIn: false}, nil
		}
		return CurrentStatusResponse{}, err
	}

	isCheckedIn := row.CheckoutTime == nil

	var hoursWorked float64
	if isCheckedIn {
		hoursWorked = round2(now.Sub(row.CheckinTime).Hours())
	} else if row.TotalHours != nil {
		hoursWorked = *row.TotalHours
	}

	checkin := row.CheckinTime.Format(time.RFC3339)
	sessionID := row.ID.String()
	return CurrentStatusResponse{
		IsCheckedIn: isCheckedIn,
		CheckinTime: &checkin,
		HoursWorked: hoursWorked,
		SessionID:   &sessionID,
	}, nil
}

func (s *service) Active(ctx context.Context, companyID, actorID, role, departmentFilter string) ([]ActiveSessionResponse, error) {
	parsedRole := scope.ParseRole(role)
	if parsedRole == scope.RoleEmployee {
		return nil, apperror.ErrForbidden
	}

	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	vis := scope.Resolve(parsedRole, actorID, actor.DepartmentIDString())

	now := s.now()
	rows, err := s.repo.FindOpenByDate(ctx, companyID, now.Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}

	resp := make([]ActiveSessionResponse, 0, len(rows))
	actorIncluded := false
	var actorSession *Session

	for i := range rows {
		row := &rows[i]
		if row.EmployeeID.String() == actorID {
			actorSession = row
		}

		deptID := ""
		if row.Employee != nil && row.Employee.DepartmentID != nil {
			deptID = row.Employee.DepartmentID.String()
		}

		if !vis.Covers(row.EmployeeID.String(), deptID) {
			continue
		}
		if departmentFilter != "" && deptID != departmentFilter {
			continue
		}

		resp = append(resp, s.mapToActive(row, now))
		if row.EmployeeID.String() == actorID {
			actorIncluded = true
		}
	}

	// The caller's own open session is always visible, even when it
	// falls outside the requested department filter.
	if !actorIncluded && actorSession != nil {
		resp = append(resp, s.mapToActive(actorSession, now))
	}

	return resp, nil
}

func (s *service) List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]SessionResponse, error) {
	parsedRole := scope.ParseRole(role)

	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	vis := scope.Resolve(parsedRole, actorID, actor.DepartmentIDString())

	var start, end *time.Time
	if filter.StartDate != "" {
		t, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, apperror.InvalidField("Start Date")
		}
		start = &t
	}
	if filter.EndDate != "" {
		t, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, apperror.InvalidField("End Date")
		}
		end = &t
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, vis, start, end)
	if err != nil {
		return nil, err
	}

	resp := make([]SessionResponse, 0, len(rows))
	for i := range rows {
		if filter.EmployeeID != "" && parsedRole != scope.RoleEmployee &&
			rows[i].EmployeeID.String() != filter.EmployeeID {
			continue
		}
		resp = append(resp, mapToResponse(rows[i]))
	}
	return resp, nil
}

func (s *service) evaluateLateness(ctx context.Context, companyID string, emp *employee.Employee, checkin time.Time) schedule.Lateness {
	if emp.ScheduleID == nil {
		return schedule.Lateness{}
	}

	sched, err := s.scheduleRepo.FindByIDAndCompany(ctx, companyID, emp.ScheduleID.String())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("schedule lookup failed", zap.Error(err))
		}
		return schedule.Lateness{}
	}
	return schedule.EvaluateLateness(checkin, sched)
}

func (s *service) verifyLocation(ctx context.Context, companyID string, emp *employee.Employee, req CheckInRequest, row *Session) {
	// No coordinates or no department means verification is skipped,
	// not failed.
	if req.Latitude == nil || req.Longitude == nil || emp.DepartmentID == nil {
		return
	}

	result, err := s.verifier.VerifyForDepartment(
		ctx, companyID, emp.DepartmentID.String(), *req.Latitude, *req.Longitude,
	)
	if err != nil {
		s.logger.Warn("geofence verification degraded to unverified", zap.Error(err))
		return
	}

	row.LocationVerified = result.Verified
	if result.Location != nil {
		locationID := result.Location.ID
		row.WorkLocationID = &locationID
	}
}

func (s *service) verifyIdentity(ctx context.Context, employeeID string, req CheckInRequest) bool {
	if req.IdentityVerified {
		return true
	}
	if req.PhotoRef == nil || *req.PhotoRef == "" {
		return false
	}
	return s.face.Verify(ctx, employeeID, *req.PhotoRef, "checkin").Verified
}

// enqueueEvent writes the outbox row on the same transaction as the
// session change, so the event exists exactly when the change does.
func (s *service) enqueueEvent(ctx context.Context, tx *gorm.DB, eventType, aggregateID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx.Statement.ConnPool).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance_session",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         events.DashboardTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) mapToActive(row *Session, now time.Time) ActiveSessionResponse {
	resp := ActiveSessionResponse{
		SessionID:   row.ID.String(),
		EmployeeID:  row.EmployeeID.String(),
		CheckinTime: row.CheckinTime.Format(time.RFC3339),
		HoursWorked: round2(now.Sub(row.CheckinTime).Hours()),
		Latitude:    row.CheckinLatitude,
		Longitude:   row.CheckinLongitude,
	}
	if row.Employee != nil {
		resp.EmployeeName = row.Employee.FullName
		if row.Employee.DepartmentID != nil {
			deptID := row.Employee.DepartmentID.String()
			resp.DepartmentID = &deptID
		}
	}
	return resp
}

func mapToResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID.String(),
		CompanyID:        s.CompanyID.String(),
		EmployeeID:       s.EmployeeID.String(),
		WorkDate:         s.WorkDate.Format("2006-01-02"),
		CheckinTime:      s.CheckinTime.Format(time.RFC3339),
		IsLate:           s.IsLate,
		LateMinutes:      s.LateMinutes,
		FaceVerified:     s.FaceVerified,
		LocationVerified: s.LocationVerified,
		TotalHours:       s.TotalHours,
	}
	if s.CheckoutTime != nil {
		v := s.CheckoutTime.Format(time.RFC3339)
		resp.CheckoutTime = &v
	}
	if s.WorkLocationID != nil {
		v := s.WorkLocationID.String()
		resp.WorkLocationID = &v
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.FullName
	}
	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
