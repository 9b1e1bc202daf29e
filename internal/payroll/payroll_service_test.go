package payroll

import (
	"context"
	"testing"
	"time"

	"go-attend/internal/employee"
	payrollerrors "go-attend/internal/payroll/errors"
	"go-attend/internal/request"
	"go-attend/internal/scope"
	"go-attend/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeRepo struct {
	statements  map[string]*Statement
	lines       map[string][]CalcLine
	closedHours map[string]float64
	createCount int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		statements:  map[string]*Statement{},
		lines:       map[string][]CalcLine{},
		closedHours: map[string]float64{},
	}
}

func statementKey(employeeID string, period time.Time) string {
	return employeeID + "|" + period.Format("2006-01")
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, s *Statement) error {
	f.createCount++
	cp := *s
	f.statements[statementKey(s.EmployeeID.String(), s.Period)] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, s *Statement) error {
	cp := *s
	f.statements[statementKey(s.EmployeeID.String(), s.Period)] = &cp
	return nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Statement, error) {
	for _, s := range f.statements {
		if s.ID.String() == id && s.CompanyID.String() == companyID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployeeAndPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (*Statement, error) {
	s, ok := f.statements[statementKey(employeeID, period)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, period *time.Time) ([]Statement, error) {
	var rows []Statement
	for _, s := range f.statements {
		rows = append(rows, *s)
	}
	return rows, nil
}

func (f *fakeRepo) ReplaceLines(ctx context.Context, statementID string, lines []CalcLine) error {
	f.lines[statementID] = lines
	return nil
}

func (f *fakeRepo) SumClosedHours(ctx context.Context, companyID, employeeID string, start, end time.Time) (float64, error) {
	return f.closedHours[employeeID], nil
}

type fakeEmployeeRepo struct {
	byID   map[string]*employee.Employee
	byDept map[string][]employee.Employee
	all    []employee.Employee
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	emp, ok := f.byID[id]
	if !ok || emp.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.all, nil
}

func (f *fakeEmployeeRepo) FindActiveByDepartment(ctx context.Context, companyID, departmentID string) ([]employee.Employee, error) {
	return f.byDept[departmentID], nil
}

type fakeRequestRepo struct {
	advances float64
}

func (f *fakeRequestRepo) Create(ctx context.Context, r *request.Request) error { return nil }
func (f *fakeRequestRepo) Update(ctx context.Context, r *request.Request) error { return nil }

func (f *fakeRequestRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*request.Request, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepo) FindAllByCompany(ctx context.Context, companyID string, vis scope.Visibility, status string) ([]request.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) SumApprovedAdvances(ctx context.Context, companyID, employeeID string, periodEnd time.Time) (float64, error) {
	return f.advances, nil
}

type fakePenaltyRepo struct {
	penalties float64
}

func (f *fakePenaltyRepo) Create(ctx context.Context, p *request.Penalty) error { return nil }

func (f *fakePenaltyRepo) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]request.Penalty, error) {
	return nil, nil
}

func (f *fakePenaltyRepo) SumActiveByPeriod(ctx context.Context, companyID, employeeID string, period time.Time) (float64, error) {
	return f.penalties, nil
}

var (
	companyID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	deptID     = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	otherDept  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	hourlyEmp  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	fixedEmp   = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	managerEmp = uuid.MustParse("66666666-6666-6666-6666-666666666666")
)

func hourlyEmployee() *employee.Employee {
	d := deptID
	return &employee.Employee{
		ID:           hourlyEmp,
		CompanyID:    companyID,
		DepartmentID: &d,
		FullName:     "Aziz Karimov",
		Role:         "employee",
		SalaryType:   employee.SalaryTypeHourly,
		HourlyRate:   1500,
		IsActive:     true,
	}
}

func fixedEmployee() *employee.Employee {
	d := deptID
	return &employee.Employee{
		ID:           fixedEmp,
		CompanyID:    companyID,
		DepartmentID: &d,
		FullName:     "Dilnoza Rashidova",
		Role:         "employee",
		SalaryType:   employee.SalaryTypeFixed,
		FixedSalary:  5000000,
		IsActive:     true,
	}
}

func manager() *employee.Employee {
	d := deptID
	return &employee.Employee{
		ID:           managerEmp,
		CompanyID:    companyID,
		DepartmentID: &d,
		FullName:     "Bobur Toshmatov",
		Role:         "manager",
		SalaryType:   employee.SalaryTypeFixed,
		FixedSalary:  8000000,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, empRepo *fakeEmployeeRepo, reqRepo *fakeRequestRepo, penRepo *fakePenaltyRepo) (*service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return &service{
		db:           gdb,
		repo:         repo,
		employeeRepo: empRepo,
		requestRepo:  reqRepo,
		penaltyRepo:  penRepo,
		overtime:     NoOvertime{},
		logger:       zap.NewNop(),
		now:          func() time.Time { return time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC) },
	}, mock
}

func TestCalculate_HourlyWithDeductions(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[hourlyEmp.String()] = 16.5
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{hourlyEmp.String(): hourlyEmployee()}}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{advances: 20000}, &fakePenaltyRepo{penalties: 5000})
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	require.Len(t, result.Statements, 1)
	st := result.Statements[0]
	assert.True(t, result.Created)
	assert.Equal(t, 16.5, st.BaseHours)
	assert.Equal(t, 24750.0, st.BaseAmount)
	assert.Equal(t, 5000.0, st.PenaltiesAmount)
	assert.Equal(t, 20000.0, st.AdvancesAmount)
	// Deductions can push the total below zero.
	assert.Equal(t, -250.0, st.TotalAmount)

	require.Len(t, st.Lines, 3)
	assert.Equal(t, LineBase, st.Lines[0].Type)
	assert.Equal(t, LinePenalty, st.Lines[1].Type)
	assert.Equal(t, -5000.0, st.Lines[1].Amount)
	assert.Equal(t, LineAdvance, st.Lines[2].Type)
	assert.Equal(t, -20000.0, st.Lines[2].Amount)
}

func TestCalculate_FixedSalaryIgnoresHours(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[fixedEmp.String()] = 160
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{fixedEmp.String(): fixedEmployee()}}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Calculate(context.Background(), companyID.String(), fixedEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	st := result.Statements[0]
	assert.Equal(t, 0.0, st.BaseHours)
	assert.Equal(t, 5000000.0, st.BaseAmount)
	assert.Equal(t, 5000000.0, st.TotalAmount)
}

func TestCalculate_RecomputeKeepsStatementIdentity(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[hourlyEmp.String()] = 10
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{hourlyEmp.String(): hourlyEmployee()}}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)
	require.True(t, first.Created)

	repo.closedHours[hourlyEmp.String()] = 20
	second, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Statements[0].ID, second.Statements[0].ID)
	assert.Equal(t, 30000.0, second.Statements[0].TotalAmount)
	assert.Equal(t, 1, repo.createCount)
}

func TestCalculate_PaidStatementRefused(t *testing.T) {
	repo := newFakeRepo()
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.statements[statementKey(hourlyEmp.String(), period)] = &Statement{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: hourlyEmp,
		Period:     period,
		Status:     StatusPaid,
	}
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{hourlyEmp.String(): hourlyEmployee()}}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	assert.ErrorIs(t, err, payrollerrors.ErrStatementPaid)
}

func TestCalculate_InvalidPeriod(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo(), &fakeEmployeeRepo{}, &fakeRequestRepo{}, &fakePenaltyRepo{})

	_, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "03-2025"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}

func TestCalculate_ManagerCannotTargetOtherDepartment(t *testing.T) {
	outside := hourlyEmployee()
	d := otherDept
	outside.DepartmentID = &d
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{
		managerEmp.String(): manager(),
		hourlyEmp.String():  outside,
	}}

	svc, _ := newTestService(t, newFakeRepo(), empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})

	target := hourlyEmp.String()
	_, err := svc.Calculate(context.Background(), companyID.String(), managerEmp.String(), "manager", CalculateRequest{
		Period:     "2025-03",
		EmployeeID: &target,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestCalculate_ManagerBatchCoversDepartment(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[hourlyEmp.String()] = 8
	empRepo := &fakeEmployeeRepo{
		byID:   map[string]*employee.Employee{managerEmp.String(): manager()},
		byDept: map[string][]employee.Employee{deptID.String(): {*hourlyEmployee(), *fixedEmployee()}},
	}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Calculate(context.Background(), companyID.String(), managerEmp.String(), "manager", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Len(t, result.Statements, 2)
}

type flatOvertime struct {
	hours  float64
	amount float64
}

func (f flatOvertime) Overtime(emp *employee.Employee, baseHours float64, period time.Time) (float64, float64) {
	return f.hours, f.amount
}

func TestCalculate_OvertimeStrategyRecordsHoursAndAmount(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[hourlyEmp.String()] = 10
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{hourlyEmp.String(): hourlyEmployee()}}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	svc.overtime = flatOvertime{hours: 5, amount: 7500}
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Calculate(context.Background(), companyID.String(), hourlyEmp.String(), "employee", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	st := result.Statements[0]
	assert.Equal(t, 5.0, st.OvertimeHours)
	assert.Equal(t, 7500.0, st.OvertimeAmount)
	assert.Equal(t, 22500.0, st.TotalAmount)

	require.Len(t, st.Lines, 2)
	assert.Equal(t, LineOvertime, st.Lines[1].Type)
	assert.Equal(t, "Overtime 5.00 hours", st.Lines[1].Description)
	assert.Equal(t, 7500.0, st.Lines[1].Amount)
}

func TestCalculate_BatchSkipsPaidStatements(t *testing.T) {
	repo := newFakeRepo()
	repo.closedHours[hourlyEmp.String()] = 8
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.statements[statementKey(fixedEmp.String(), period)] = &Statement{
		ID:          uuid.New(),
		CompanyID:   companyID,
		EmployeeID:  fixedEmp,
		Period:      period,
		Status:      StatusPaid,
		TotalAmount: 5000000,
	}
	empRepo := &fakeEmployeeRepo{
		byID:   map[string]*employee.Employee{managerEmp.String(): manager()},
		byDept: map[string][]employee.Employee{deptID.String(): {*hourlyEmployee(), *fixedEmployee()}},
	}

	svc, mock := newTestService(t, repo, empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Calculate(context.Background(), companyID.String(), managerEmp.String(), "manager", CalculateRequest{Period: "2025-03"})
	require.NoError(t, err)

	// The paid statement is passed over, not recomputed and not fatal.
	require.Len(t, result.Statements, 1)
	assert.Equal(t, hourlyEmp.String(), result.Statements[0].EmployeeID)

	kept := repo.statements[statementKey(fixedEmp.String(), period)]
	assert.Equal(t, StatusPaid, kept.Status)
	assert.Equal(t, 5000000.0, kept.TotalAmount)
}

func TestCalculate_UnknownTargetEmployee(t *testing.T) {
	empRepo := &fakeEmployeeRepo{byID: map[string]*employee.Employee{managerEmp.String(): manager()}}

	svc, _ := newTestService(t, newFakeRepo(), empRepo, &fakeRequestRepo{}, &fakePenaltyRepo{})

	target := uuid.NewString()
	_, err := svc.Calculate(context.Background(), companyID.String(), managerEmp.String(), "manager", CalculateRequest{
		Period:     "2025-03",
		EmployeeID: &target,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
}

func TestMarkPaid_Transitions(t *testing.T) {
	repo := newFakeRepo()
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	st := &Statement{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: hourlyEmp,
		Period:     period,
		Status:     StatusCalculated,
	}
	repo.statements[statementKey(hourlyEmp.String(), period)] = st

	svc, _ := newTestService(t, repo, &fakeEmployeeRepo{}, &fakeRequestRepo{}, &fakePenaltyRepo{})

	resp, err := svc.MarkPaid(context.Background(), companyID.String(), st.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)
	require.NotNil(t, resp.PaidAt)

	// A second attempt is refused.
	_, err = svc.MarkPaid(context.Background(), companyID.String(), st.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrStatementPaid)
}

func TestMarkPaid_CrossTenantInvisible(t *testing.T) {
	repo := newFakeRepo()
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	st := &Statement{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: hourlyEmp,
		Period:     period,
		Status:     StatusCalculated,
	}
	repo.statements[statementKey(hourlyEmp.String(), period)] = st

	svc, _ := newTestService(t, repo, &fakeEmployeeRepo{}, &fakeRequestRepo{}, &fakePenaltyRepo{})

	otherCompany := uuid.NewString()
	_, err := svc.MarkPaid(context.Background(), otherCompany, st.ID.String())
	assert.ErrorIs(t, err, payrollerrors.ErrStatementNotFound)
}
