package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLateThreshold applies when a schedule has no explicit grace
// period configured.
const DefaultLateThreshold = 15

type WorkSchedule struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name          string         `gorm:"type:varchar(150);not null"`
	StartHour     int            `gorm:"not null"`
	StartMinute   int            `gorm:"not null;default:0"`
	EndHour       int            `gorm:"not null"`
	EndMinute     int            `gorm:"not null;default:0"`
	LateThreshold int            `gorm:"not null;default:15"`
	CreatedAt     time.Time      `gorm:"not null;default:now()"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (WorkSchedule) TableName() string {
	return "work_schedules"
}

// Threshold returns the configured grace period in minutes, falling
// back to the default when unset.
func (s *WorkSchedule) Threshold() int {
	if s.LateThreshold <= 0 {
		return DefaultLateThreshold
	}
	return s.LateThreshold
}
