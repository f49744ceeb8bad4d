package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInRange(t *testing.T) {
	assert.Equal(t, 1, DaysInRange(day(10), day(10)))
	assert.Equal(t, 3, DaysInRange(day(10), day(12)))
	assert.Equal(t, 31, DaysInRange(day(1), day(31)))
}

func TestLeaveRequest_Dates(t *testing.T) {
	req := LeaveRequest{StartDate: day(30), EndDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Days: 3}

	dates := req.Dates()

	assert.Equal(t, []time.Time{day(30), day(31), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}, dates)
}

func TestBalance_Consume(t *testing.T) {
	tests := []struct {
		name        string
		typ         LeaveType
		days        int
		wantTracked bool
		wantExceeds bool
	}{
		{"annual within allotment", LeaveTypeAnnual, 3, true, false},
		{"sick beyond allotment", LeaveTypeSick, 3, true, true},
		{"emergency exactly at allotment", LeaveTypeEmergency, 2, true, false},
		{"maternity untracked", LeaveTypeMaternity, 60, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBalance("emp-1", Allotment{Annual: 10, Sick: 2, Emergency: 2})

			tracked, exceeds := b.Consume(tt.typ, tt.days)

			assert.Equal(t, tt.wantTracked, tracked)
			assert.Equal(t, tt.wantExceeds, exceeds)
		})
	}
}
