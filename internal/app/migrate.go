package app

import (
	"go-attend/internal/attendance"
	"go-attend/internal/company"
	"go-attend/internal/department"
	"go-attend/internal/employee"
	"go-attend/internal/geofence"
	"go-attend/internal/payroll"
	"go-attend/internal/request"
	"go-attend/internal/schedule"

	"gorm.io/gorm"
)

// Migrate creates the schema. The partial unique index and the outbox
// table need raw SQL; AutoMigrate cannot express either.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&company.Company{},
		&department.Department{},
		&schedule.WorkSchedule{},
		&employee.Employee{},
		&geofence.WorkLocation{},
		&attendance.Session{},
		&request.Request{},
		&request.Penalty{},
		&payroll.Statement{},
		&payroll.CalcLine{},
	); err != nil {
		return err
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_open
			ON attendance_sessions (employee_id, work_date)
			WHERE checkout_time IS NULL`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id VARCHAR(64),
			aggregate_type VARCHAR(50) NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type VARCHAR(100) NOT NULL,
			topic VARCHAR(200) NOT NULL,
			payload JSONB NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message VARCHAR(500),
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_pending
			ON outbox_events (status, next_retry_at, created_at)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
