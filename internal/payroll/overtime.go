package payroll

import (
	"time"

	"go-attend/internal/employee"
)

// OvertimeStrategy yields the overtime hours and amount for one
// statement. There is no company-agreed overtime formula yet, so the
// default strategy pays nothing; a per-company strategy can be
// injected once the rules exist.
type OvertimeStrategy interface {
	Overtime(emp *employee.Employee, baseHours float64, period time.Time) (hours, amount float64)
}

type NoOvertime struct{}

func (NoOvertime) Overtime(emp *employee.Employee, baseHours float64, period time.Time) (float64, float64) {
	return 0, 0
}
