package request

type CreateRequest struct {
	Type      string   `json:"type" binding:"required,oneof=vacation sick_leave day_off advance"`
	Reason    string   `json:"reason"`
	Amount    *float64 `json:"amount" binding:"omitempty,gt=0"`
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   *string  `json:"end_date"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

type CreatePenaltyRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
	Period     string  `json:"period" binding:"required"`
}

type ListFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type RequestResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name,omitempty"`
	Type          string   `json:"type"`
	Reason        string   `json:"reason,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	StartDate     string   `json:"start_date"`
	EndDate       *string  `json:"end_date,omitempty"`
	Status        string   `json:"status"`
	ReviewedBy    *string  `json:"reviewed_by,omitempty"`
	ReviewedAt    *string  `json:"reviewed_at,omitempty"`
	ReviewComment *string  `json:"review_comment,omitempty"`
}

type PenaltyResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason,omitempty"`
	Period     string  `json:"period"`
	Status     string  `json:"status"`
}
