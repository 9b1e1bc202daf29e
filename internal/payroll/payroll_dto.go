package payroll

type CalculateRequest struct {
	Period     string  `json:"period" binding:"required"`
	EmployeeID *string `json:"employee_id" binding:"omitempty,uuid"`
}

type CalculateResult struct {
	Created    bool                `json:"created"`
	Statements []StatementResponse `json:"statements"`
}

type CalcLineResponse struct {
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

type StatementResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    string             `json:"employee_name,omitempty"`
	Period          string             `json:"period"`
	BaseHours       float64            `json:"base_hours"`
	BaseAmount      float64            `json:"base_amount"`
	OvertimeHours   float64            `json:"overtime_hours"`
	OvertimeAmount  float64            `json:"overtime_amount"`
	PenaltiesAmount float64            `json:"penalties_amount"`
	AdvancesAmount  float64            `json:"advances_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Status          string             `json:"status"`
	PaidAt          *string            `json:"paid_at,omitempty"`
	Lines           []CalcLineResponse `json:"lines,omitempty"`
}

type ListFilterRequest struct {
	Period string `form:"period"`
}
