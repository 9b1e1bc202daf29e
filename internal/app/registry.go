package app

import (
	"database/sql"

	"go-attend/internal/attendance"
	"go-attend/internal/company"
	"go-attend/internal/config"
	"go-attend/internal/employee"
	"go-attend/internal/events"
	"go-attend/internal/faceid"
	"go-attend/internal/geofence"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/payroll"
	"go-attend/internal/rbac"
	"go-attend/internal/request"
	"go-attend/internal/schedule"
	"go-attend/internal/tenant"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry wires repositories, services and handlers once at startup.
type Registry struct {
	TenantResolver *tenant.Resolver
	RBAC           rbac.Service

	AttendanceHandler *attendance.Handler
	GeofenceHandler   *geofence.Handler
	PayrollHandler    *payroll.Handler
	RequestHandler    *request.Handler
}

func BuildRegistry(
	db *gorm.DB,
	sqlDB *sql.DB,
	rdb *redis.Client,
	publisher events.Publisher,
	cfg config.Config,
	logger *zap.Logger,
) (*Registry, error) {
	rbacService, err := rbac.NewService()
	if err != nil {
		return nil, err
	}

	companyRepo := company.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)
	geofenceRepo := geofence.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	payrollRepo := payroll.NewRepository(db)
	requestRepo := request.NewRepository(db)
	penaltyRepo := request.NewPenaltyRepository(db)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	verifier := geofence.NewVerifier(geofenceRepo, logger)

	var faceClient faceid.Client = faceid.Disabled{}
	if cfg.FaceIDServiceURL != "" {
		faceClient = faceid.NewClient(cfg.FaceIDServiceURL, cfg.FaceIDTimeout, logger)
	}

	attendanceService := attendance.NewService(
		db, attendanceRepo, employeeRepo, scheduleRepo,
		verifier, faceClient, outboxRepo, logger,
	)
	payrollService := payroll.NewService(
		db, payrollRepo, employeeRepo, requestRepo, penaltyRepo,
		payroll.NoOvertime{}, rdb, logger,
	)
	requestService := request.NewService(requestRepo, penaltyRepo, employeeRepo, publisher, logger)

	return &Registry{
		TenantResolver: tenant.NewResolver(companyRepo, logger),
		RBAC:           rbacService,

		AttendanceHandler: attendance.NewHandler(attendanceService, rdb),
		GeofenceHandler:   geofence.NewHandler(verifier, employeeRepo),
		PayrollHandler:    payroll.NewHandler(payrollService, rdb),
		RequestHandler:    request.NewHandler(requestService),
	}, nil
}
