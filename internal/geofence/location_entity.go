package geofence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkLocation struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name         string         `gorm:"type:varchar(100);not null"`
	Address      *string        `gorm:"type:text"`
	Latitude     float64        `gorm:"type:numeric(10,8);not null"`
	Longitude    float64        `gorm:"type:numeric(11,8);not null"`
	RadiusMeters int            `gorm:"column:radius;not null;default:100"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time      `gorm:"not null;default:now()"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (WorkLocation) TableName() string {
	return "work_locations"
}
