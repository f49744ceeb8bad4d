package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on-leave"
	StatusLate    Status = "late"
	StatusEarly   Status = "early"
)

// CountsAsPresent reports whether the employee showed up that day.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate || s == StatusEarly
}

// Record is one employee's attendance on one date. (EmployeeID, Date) is unique.
type Record struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	CheckIn      *string // HH:MM
	CheckOut     *string // HH:MM
	WorkedHours  *float64
	Status       Status
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stats aggregates an employee's records over a date range.
type Stats struct {
	EmployeeID  string
	PresentDays int
	AbsentDays  int
	LeaveDays   int
	TotalHours  float64
	TotalDays   int
}

// WorkedHours returns checkout minus checkin in whole minutes divided by 60,
// rounded to one decimal. A checkout earlier than the checkin is taken to be on
// the next day; equal times yield zero.
func WorkedHours(checkIn, checkOut string) (float64, error) {
	in, err := validator.ClockMinutes(checkIn)
	if err != nil {
		return 0, err
	}
	out, err := validator.ClockMinutes(checkOut)
	if err != nil {
		return 0, err
	}
	minutes := out - in
	if minutes < 0 {
		minutes += 24 * 60
	}
	return RoundHours(float64(minutes) / 60), nil
}

// RoundHours rounds to one decimal.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// Summarize folds records into Stats.
func Summarize(employeeID string, records []Record) Stats {
	stats := Stats{EmployeeID: employeeID, TotalDays: len(records)}
	var hours float64
	for _, r := range records {
		switch {
		case r.Status.CountsAsPresent():
			stats.PresentDays++
			if r.WorkedHours != nil {
				hours += *r.WorkedHours
			}
		case r.Status == StatusAbsent:
			stats.AbsentDays++
		case r.Status == StatusOnLeave:
			stats.LeaveDays++
		}
	}
	stats.TotalHours = RoundHours(hours)
	return stats
}
