package request

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeVacation  = "vacation"
	TypeSickLeave = "sick_leave"
	TypeDayOff    = "day_off"
	TypeAdvance   = "advance"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Request struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type          string         `gorm:"type:varchar(20);not null"`
	Reason        string         `gorm:"type:text"`
	Amount        *float64       `gorm:"type:numeric(12,2)"`
	StartDate     time.Time      `gorm:"type:date;not null"`
	EndDate       *time.Time     `gorm:"type:date"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewedBy    *uuid.UUID     `gorm:"type:uuid"`
	ReviewedAt    *time.Time     `gorm:"type:timestamptz"`
	ReviewComment *string        `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"not null;default:now()"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	Employee      *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Request) TableName() string {
	return "requests"
}

const (
	PenaltyStatusActive    = "active"
	PenaltyStatusCancelled = "cancelled"
)

// Penalty is a deduction applied to one payroll period. Period is
// normalized to the first day of the month.
type Penalty struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Amount     float64        `gorm:"type:numeric(12,2);not null"`
	Reason     string         `gorm:"type:text"`
	Period     time.Time      `gorm:"type:date;not null;index"`
	Status     string         `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt  time.Time      `gorm:"not null;default:now()"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Penalty) TableName() string {
	return "penalties"
}

type EmployeeRef struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"column:full_name"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
