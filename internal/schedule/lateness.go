package schedule

import "time"

// Lateness is the outcome of evaluating one check-in against a schedule.
type Lateness struct {
	IsLate      bool
	LateMinutes int
}

// EvaluateLateness compares a check-in moment with the schedule's start
// time on the same calendar day. Minutes are floored, and a check-in
// exactly at the threshold still counts as on time (strict greater-than).
// A nil schedule means the employee has no lateness policy at all.
func EvaluateLateness(checkin time.Time, sched *WorkSchedule) Lateness {
	if sched == nil {
		return Lateness{}
	}

	scheduled := time.Date(
		checkin.Year(), checkin.Month(), checkin.Day(),
		sched.StartHour, sched.StartMinute, 0, 0,
		checkin.Location(),
	)

	if !checkin.After(scheduled) {
		return Lateness{}
	}

	lateMinutes := int(checkin.Sub(scheduled).Minutes())
	return Lateness{
		IsLate:      lateMinutes > sched.Threshold(),
		LateMinutes: lateMinutes,
	}
}
