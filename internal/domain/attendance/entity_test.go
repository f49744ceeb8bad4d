package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkedHours(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     float64
	}{
		{"half hour", "08:00", "16:30", 8.5},
		{"overnight wraps", "22:00", "06:00", 8.0},
		{"equal times", "09:00", "09:00", 0},
		{"rounds to one decimal", "08:00", "08:20", 0.3},
		{"one minute before midnight", "23:59", "00:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WorkedHours(tt.checkIn, tt.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkedHours_InvalidClock(t *testing.T) {
	_, err := WorkedHours("8am", "16:00")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	hours := func(h float64) *float64 { return &h }
	records := []Record{
		{Status: StatusPresent, WorkedHours: hours(8)},
		{Status: StatusLate, WorkedHours: hours(7.5)},
		{Status: StatusEarly},
		{Status: StatusAbsent},
		{Status: StatusOnLeave},
		{Status: StatusOnLeave},
	}

	stats := Summarize("emp-1", records)

	assert.Equal(t, Stats{
		EmployeeID:  "emp-1",
		PresentDays: 3,
		AbsentDays:  1,
		LeaveDays:   2,
		TotalHours:  15.5,
		TotalDays:   6,
	}, stats)
}
