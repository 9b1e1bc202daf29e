package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusCalculated = "calculated"
	StatusPaid       = "paid"
)

const (
	LineBase     = "base"
	LineOvertime = "overtime"
	LinePenalty  = "penalty"
	LineAdvance  = "advance"
)

// Statement is one employee's payroll for one period (first day of
// month). Recomputation keeps the row and replaces its calc lines.
type Statement struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_statement"`
	Period          time.Time      `gorm:"type:date;not null;uniqueIndex:uq_payroll_statement"`
	BaseHours       float64        `gorm:"type:numeric(7,2);not null;default:0"`
	BaseAmount      float64        `gorm:"type:numeric(12,2);not null;default:0"`
	OvertimeHours   float64        `gorm:"type:numeric(7,2);not null;default:0"`
	OvertimeAmount  float64        `gorm:"type:numeric(12,2);not null;default:0"`
	PenaltiesAmount float64        `gorm:"type:numeric(12,2);not null;default:0"`
	AdvancesAmount  float64        `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount     float64        `gorm:"type:numeric(12,2);not null;default:0"`
	Status          string         `gorm:"type:varchar(20);not null;default:'calculated'"`
	PaidAt          *time.Time     `gorm:"type:timestamptz"`
	CreatedAt       time.Time      `gorm:"not null;default:now()"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	Employee        *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
	Lines           []CalcLine     `gorm:"foreignKey:StatementID"`
}

func (Statement) TableName() string {
	return "payroll_statements"
}

// CalcLine is one explainable component of a statement total.
// Deductions carry negative amounts.
type CalcLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StatementID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Description string    `gorm:"type:varchar(255)"`
	Amount      float64   `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
}

func (CalcLine) TableName() string {
	return "payroll_calc_lines"
}

type EmployeeRef struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"column:full_name"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
