package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SalaryTypeFixed  = "fixed"
	SalaryTypeHourly = "hourly"
)

type Employee struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID     `gorm:"type:uuid;index"`
	ScheduleID   *uuid.UUID     `gorm:"column:work_schedule_id;type:uuid"`
	FullName     string         `gorm:"type:varchar(200);not null"`
	Email        *string        `gorm:"type:varchar(255);index"`
	Role         string         `gorm:"type:varchar(20);not null;default:employee"`
	SalaryType   string         `gorm:"type:varchar(10);not null;default:hourly"`
	HourlyRate   float64        `gorm:"type:numeric(10,2);not null;default:0"`
	FixedSalary  float64        `gorm:"type:numeric(10,2);not null;default:0"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time      `gorm:"not null;default:now()"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) DepartmentIDString() string {
	if e.DepartmentID == nil {
		return ""
	}
	return e.DepartmentID.String()
}
