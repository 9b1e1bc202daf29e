package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nineToSix(threshold int) *WorkSchedule {
	return &WorkSchedule{
		StartHour:     9,
		StartMinute:   0,
		EndHour:       18,
		EndMinute:     0,
		LateThreshold: threshold,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestEvaluateLateness(t *testing.T) {
	tests := []struct {
		name     string
		checkin  time.Time
		sched    *WorkSchedule
		expected Lateness
	}{
		{
			name:     "nil schedule means no policy",
			checkin:  at(11, 0),
			sched:    nil,
			expected: Lateness{},
		},
		{
			name:     "before start",
			checkin:  at(8, 45),
			sched:    nineToSix(15),
			expected: Lateness{},
		},
		{
			name:     "exactly at start",
			checkin:  at(9, 0),
			sched:    nineToSix(15),
			expected: Lateness{},
		},
		{
			name:    "within threshold records minutes but not late",
			checkin: at(9, 15),
			sched:   nineToSix(15),
			expected: Lateness{
				IsLate:      false,
				LateMinutes: 15,
			},
		},
		{
			name:    "one minute past threshold is late",
			checkin: at(9, 16),
			sched:   nineToSix(15),
			expected: Lateness{
				IsLate:      true,
				LateMinutes: 16,
			},
		},
		{
			name:    "seconds are floored",
			checkin: time.Date(2025, 3, 10, 9, 15, 59, 0, time.UTC),
			sched:   nineToSix(15),
			expected: Lateness{
				IsLate:      false,
				LateMinutes: 15,
			},
		},
		{
			name:    "zero threshold falls back to the default",
			checkin: at(9, 10),
			sched:   nineToSix(0),
			expected: Lateness{
				IsLate:      false,
				LateMinutes: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EvaluateLateness(tt.checkin, tt.sched))
		})
	}
}
