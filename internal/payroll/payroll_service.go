package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go-attend/internal/employee"
	payrollerrors "go-attend/internal/payroll/errors"
	"go-attend/internal/request"
	"go-attend/internal/scope"
	"go-attend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statementCacheTTL = time.Hour

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// Calculate computes statements for one employee or the actor's
	// whole visibility scope. Created reports whether any statement was
	// new rather than recomputed.
	Calculate(ctx context.Context, companyID, actorID, role string, req CalculateRequest) (CalculateResult, error)
	MarkPaid(ctx context.Context, companyID, id string) (StatementResponse, error)
	List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]StatementResponse, error)
	Get(ctx context.Context, companyID, actorID, role, id string) (StatementResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employeeRepo employee.Repository
	requestRepo  request.Repository
	penaltyRepo  request.PenaltyRepository
	overtime     OvertimeStrategy
	rdb          *redis.Client
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employeeRepo employee.Repository,
	requestRepo request.Repository,
	penaltyRepo request.PenaltyRepository,
	overtime OvertimeStrategy,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if overtime == nil {
		overtime = NoOvertime{}
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		requestRepo:  requestRepo,
		penaltyRepo:  penaltyRepo,
		overtime:     overtime,
		rdb:          rdb,
		logger:       l,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Calculate(ctx context.Context, companyID, actorID, role string, req CalculateRequest) (CalculateResult, error) {
	periodStart, err := parsePeriod(req.Period)
	if err != nil {
		return CalculateResult{}, err
	}
	periodEnd := periodStart.AddDate(0, 1, -1)

	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return CalculateResult{}, mapNotFound(err)
	}
	parsedRole := scope.ParseRole(role)
	vis := scope.Resolve(parsedRole, actorID, actor.DepartmentIDString())

	targets, err := s.resolveTargets(ctx, companyID, actor, parsedRole, vis, req.EmployeeID)
	if err != nil {
		return CalculateResult{}, err
	}

	// A scope-wide run walks past already-paid statements; only an
	// explicit single-employee recompute is refused.
	batch := parsedRole != scope.RoleEmployee && req.EmployeeID == nil

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return CalculateResult{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	result := CalculateResult{Statements: make([]StatementResponse, 0, len(targets))}
	for i := range targets {
		resp, created, err := s.calculateOne(ctx, qtx, &targets[i], periodStart, periodEnd)
		if err != nil {
			if batch && errors.Is(err, payrollerrors.ErrStatementPaid) {
				s.logger.Info("statement already paid, skipped",
					zap.String("employee_id", targets[i].ID.String()),
					zap.String("period", req.Period))
				continue
			}
			return CalculateResult{}, err
		}
		result.Created = result.Created || created
		result.Statements = append(result.Statements, resp)
	}

	if err := tx.Commit().Error; err != nil {
		return CalculateResult{}, err
	}

	for i := range result.Statements {
		s.cacheStatement(ctx, companyID, result.Statements[i])
	}
	return result, nil
}

func (s *service) resolveTargets(
	ctx context.Context,
	companyID string,
	actor *employee.Employee,
	role scope.Role,
	vis scope.Visibility,
	employeeID *string,
) ([]employee.Employee, error) {
	// Employees always compute their own statement, whatever they ask
	// for.
	if role == scope.RoleEmployee {
		return []employee.Employee{*actor}, nil
	}

	if employeeID != nil {
		target, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, *employeeID)
		if err != nil {
			return nil, mapNotFound(err)
		}
		if !vis.Covers(target.ID.String(), target.DepartmentIDString()) {
			return nil, apperror.ErrForbidden
		}
		return []employee.Employee{*target}, nil
	}

	switch vis.Kind {
	case scope.All:
		return s.employeeRepo.FindActiveByCompany(ctx, companyID)
	case scope.Department:
		return s.employeeRepo.FindActiveByDepartment(ctx, companyID, vis.DepartmentID)
	default:
		return []employee.Employee{*actor}, nil
	}
}

func (s *service) calculateOne(
	ctx context.Context,
	repo Repository,
	emp *employee.Employee,
	periodStart, periodEnd time.Time,
) (StatementResponse, bool, error) {
	companyID := emp.CompanyID.String()
	employeeID := emp.ID.String()

	existing, err := repo.FindByEmployeeAndPeriod(ctx, companyID, employeeID, periodStart)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return StatementResponse{}, false, err
	}
	if existing != nil && existing.Status == StatusPaid {
		return StatementResponse{}, false, payrollerrors.ErrStatementPaid
	}

	var baseHours, baseAmount float64
	switch emp.SalaryType {
	case employee.SalaryTypeFixed:
		baseAmount = emp.FixedSalary
	default:
		baseHours, err = repo.SumClosedHours(ctx, companyID, employeeID, periodStart, periodEnd)
		if err != nil {
			return StatementResponse{}, false, err
		}
		baseAmount = round2(baseHours * emp.HourlyRate)
	}

	otHours, otAmount := s.overtime.Overtime(emp, baseHours, periodStart)
	otHours = round2(otHours)
	otAmount = round2(otAmount)

	penalties, err := s.penaltyRepo.SumActiveByPeriod(ctx, companyID, employeeID, periodStart)
	if err != nil {
		return StatementResponse{}, false, err
	}
	advances, err := s.requestRepo.SumApprovedAdvances(ctx, companyID, employeeID, periodEnd)
	if err != nil {
		return StatementResponse{}, false, err
	}

	total := round2(baseAmount + otAmount - penalties - advances)

	created := existing == nil
	row := existing
	if created {
		row = &Statement{
			ID:         uuid.New(),
			CompanyID:  emp.CompanyID,
			EmployeeID: emp.ID,
			Period:     periodStart,
		}
	}
	row.BaseHours = round2(baseHours)
	row.BaseAmount = baseAmount
	row.OvertimeHours = otHours
	row.OvertimeAmount = otAmount
	row.PenaltiesAmount = round2(penalties)
	row.AdvancesAmount = round2(advances)
	row.TotalAmount = total
	row.Status = StatusCalculated

	if created {
		err = repo.Create(ctx, row)
	} else {
		err = repo.Update(ctx, row)
	}
	if err != nil {
		return StatementResponse{}, false, err
	}

	lines := buildLines(row, emp)
	if err := repo.ReplaceLines(ctx, row.ID.String(), lines); err != nil {
		return StatementResponse{}, false, err
	}
	row.Lines = lines

	resp := mapToResponse(*row)
	resp.EmployeeName = emp.FullName
	return resp, created, nil
}

// buildLines keeps a fixed order: base, overtime, then deductions as
// negative amounts.
func buildLines(row *Statement, emp *employee.Employee) []CalcLine {
	lines := make([]CalcLine, 0, 4)

	baseDesc := "Fixed salary"
	if emp.SalaryType != employee.SalaryTypeFixed {
		baseDesc = fmt.Sprintf("%.2f hours x %.2f", row.BaseHours, emp.HourlyRate)
	}
	lines = append(lines, CalcLine{
		ID:          uuid.New(),
		StatementID: row.ID,
		Type:        LineBase,
		Description: baseDesc,
		Amount:      row.BaseAmount,
	})

	if row.OvertimeAmount > 0 {
		lines = append(lines, CalcLine{
			ID:          uuid.New(),
			StatementID: row.ID,
			Type:        LineOvertime,
			Description: fmt.Sprintf("Overtime %.2f hours", row.OvertimeHours),
			Amount:      row.OvertimeAmount,
		})
	}
	if row.PenaltiesAmount > 0 {
		lines = append(lines, CalcLine{
			ID:          uuid.New(),
			StatementID: row.ID,
			Type:        LinePenalty,
			Description: "Penalties for period",
			Amount:      -row.PenaltiesAmount,
		})
	}
	if row.AdvancesAmount > 0 {
		lines = append(lines, CalcLine{
			ID:          uuid.New(),
			StatementID: row.ID,
			Type:        LineAdvance,
			Description: "Approved salary advances",
			Amount:      -row.AdvancesAmount,
		})
	}
	return lines
}

func (s *service) MarkPaid(ctx context.Context, companyID, id string) (StatementResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StatementResponse{}, mapStatementNotFound(err)
	}
	if row.Status == StatusPaid {
		return StatementResponse{}, payrollerrors.ErrStatementPaid
	}

	now := s.now()
	row.Status = StatusPaid
	row.PaidAt = &now
	if err := s.repo.Update(ctx, row); err != nil {
		return StatementResponse{}, err
	}

	resp := mapToResponse(*row)
	s.cacheStatement(ctx, companyID, resp)
	return resp, nil
}

func (s *service) List(ctx context.Context, companyID, actorID, role string, filter ListFilterRequest) ([]StatementResponse, error) {
	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	vis := scope.Resolve(scope.ParseRole(role), actorID, actor.DepartmentIDString())

	var period *time.Time
	if filter.Period != "" {
		t, err := parsePeriod(filter.Period)
		if err != nil {
			return nil, err
		}
		period = &t
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, vis, period)
	if err != nil {
		return nil, err
	}

	resp := make([]StatementResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, mapToResponse(rows[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, companyID, actorID, role, id string) (StatementResponse, error) {
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return StatementResponse{}, mapStatementNotFound(err)
	}

	actor, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, actorID)
	if err != nil {
		return StatementResponse{}, mapNotFound(err)
	}
	vis := scope.Resolve(scope.ParseRole(role), actorID, actor.DepartmentIDString())

	deptID := ""
	if row.Employee != nil && row.Employee.DepartmentID != nil {
		deptID = row.Employee.DepartmentID.String()
	}
	if !vis.Covers(row.EmployeeID.String(), deptID) {
		return StatementResponse{}, apperror.ErrForbidden
	}

	return mapToResponse(*row), nil
}

// cacheStatement is best effort read acceleration, keyed by tenant,
// employee and period. Recomputation overwrites the previous entry.
func (s *service) cacheStatement(ctx context.Context, companyID string, resp StatementResponse) {
	if s.rdb == nil {
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return
	}

	key := fmt.Sprintf("payroll:%s:%s:%s", companyID, resp.EmployeeID, resp.Period)
	if err := s.rdb.Set(ctx, key, body, statementCacheTTL).Err(); err != nil {
		s.logger.Warn("statement cache write failed", zap.Error(err))
	}
}

func parsePeriod(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, apperror.InvalidField("Period")
	}
	return t, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrEmployeeNotFound
	}
	return err
}

func mapStatementNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrStatementNotFound
	}
	return err
}

func mapToResponse(s Statement) StatementResponse {
	resp := StatementResponse{
		ID:              s.ID.String(),
		EmployeeID:      s.EmployeeID.String(),
		Period:          s.Period.Format("2006-01"),
		BaseHours:       s.BaseHours,
		BaseAmount:      s.BaseAmount,
		OvertimeHours:   s.OvertimeHours,
		OvertimeAmount:  s.OvertimeAmount,
		PenaltiesAmount: s.PenaltiesAmount,
		AdvancesAmount:  s.AdvancesAmount,
		TotalAmount:     s.TotalAmount,
		Status:          s.Status,
	}
	if s.Employee != nil {
		resp.EmployeeName = s.Employee.FullName
	}
	if s.PaidAt != nil {
		v := s.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, CalcLineResponse{
			Type:        line.Type,
			Description: line.Description,
			Amount:      line.Amount,
		})
	}
	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
