package events

import "time"

// DashboardTopic is the shared broadcast channel every state-change
// notification goes to. Delivery is best effort, at most once.
const DashboardTopic = "attendance.dashboard.v1"

const (
	TypeCheckin         = "employee:checkin"
	TypeCheckout        = "employee:checkout"
	TypeRequestApproved = "request_approved"
	TypeRequestRejected = "request_rejected"
)

type CheckinEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	DepartmentID string    `json:"department_id,omitempty"`
	CheckinTime  time.Time `json:"checkin_time"`
	IsLate       bool      `json:"is_late"`
	LateMinutes  int       `json:"late_minutes"`
}

type CheckoutEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	CheckoutTime time.Time `json:"checkout_time"`
	TotalHours   float64   `json:"total_hours"`
}

type RequestReviewedEvent struct {
	EventType    string `json:"event_type"`
	RequestID    string `json:"request_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	ReviewedBy   string `json:"reviewed_by"`
}
