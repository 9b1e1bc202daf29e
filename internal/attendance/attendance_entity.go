package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one check-in/check-out cycle. The partial unique index
// uq_attendance_open (employee_id, work_date where checkout_time is
// null) is the atomic guard against double check-in; the service-level
// pre-read only exists for a friendlier fast path.
type Session struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	WorkDate          time.Time      `gorm:"type:date;not null;index"`
	CheckinTime       time.Time      `gorm:"type:timestamptz;not null"`
	CheckoutTime      *time.Time     `gorm:"type:timestamptz"`
	CheckinPhotoURL   *string        `gorm:"type:varchar(500)"`
	CheckoutPhotoURL  *string        `gorm:"type:varchar(500)"`
	CheckinLatitude   *float64       `gorm:"type:numeric(10,8)"`
	CheckinLongitude  *float64       `gorm:"type:numeric(11,8)"`
	CheckoutLatitude  *float64       `gorm:"type:numeric(10,8)"`
	CheckoutLongitude *float64       `gorm:"type:numeric(11,8)"`
	WorkLocationID    *uuid.UUID     `gorm:"type:uuid"`
	IsLate            bool           `gorm:"not null;default:false"`
	LateMinutes       int            `gorm:"not null;default:0"`
	FaceVerified      bool           `gorm:"not null;default:false"`
	LocationVerified  bool           `gorm:"not null;default:false"`
	TotalHours        *float64       `gorm:"type:numeric(5,2)"`
	CreatedAt         time.Time      `gorm:"not null;default:now()"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
	Employee          *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Session) TableName() string {
	return "attendance_sessions"
}

// EmployeeRef is the slim employee projection joined into session
// listings.
type EmployeeRef struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName     string     `gorm:"column:full_name"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
