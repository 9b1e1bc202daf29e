package attendance

type CheckInRequest struct {
	PhotoRef         *string  `json:"photo_ref"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	IdentityVerified bool     `json:"identity_verified"`
}

type CheckOutRequest struct {
	PhotoRef  *string  `json:"photo_ref"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type SessionResponse struct {
	ID               string   `json:"id"`
	CompanyID        string   `json:"company_id"`
	EmployeeID       string   `json:"employee_id"`
	EmployeeName     string   `json:"employee_name,omitempty"`
	WorkDate         string   `json:"work_date"`
	CheckinTime      string   `json:"checkin_time"`
	CheckoutTime     *string  `json:"checkout_time,omitempty"`
	IsLate           bool     `json:"is_late"`
	LateMinutes      int      `json:"late_minutes"`
	FaceVerified     bool     `json:"face_verified"`
	LocationVerified bool     `json:"location_verified"`
	WorkLocationID   *string  `json:"work_location_id,omitempty"`
	TotalHours       *float64 `json:"total_hours,omitempty"`
}

type CurrentStatusResponse struct {
	IsCheckedIn bool    `json:"is_checked_in"`
	CheckinTime *string `json:"checkin_time"`
	HoursWorked float64 `json:"hours_worked"`
	SessionID   *string `json:"session_id"`
}

type ActiveSessionResponse struct {
	SessionID    string   `json:"session_id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	DepartmentID *string  `json:"department_id,omitempty"`
	CheckinTime  string   `json:"checkin_time"`
	HoursWorked  float64  `json:"hours_worked"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type ListFilterRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	EmployeeID string `form:"employee_id"`
}
