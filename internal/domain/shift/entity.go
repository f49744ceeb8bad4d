package shift

import (
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type ShiftType string

const (
	ShiftTypeMorning ShiftType = "morning"
	ShiftTypeEvening ShiftType = "evening"
	ShiftTypeNight   ShiftType = "night"
	ShiftTypeCustom  ShiftType = "custom"
)

// Shift is a reusable time window with a staffing capacity.
type Shift struct {
	ID            string
	Code          string
	Name          string
	Type          ShiftType
	StartTime     string // HH:MM
	EndTime       string // HH:MM, before StartTime means the shift ends the next day
	DurationHours float64
	MaxEmployees  int
	Location      *string
	Color         *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AssignmentStatus string

const (
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// Assignment schedules one employee into one shift on one date.
type Assignment struct {
	ID        string
	ShiftID   string
	Employee  string
	Role      *string
	Date      time.Time
	Status    AssignmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AssignmentFilter narrows assignment listings; zero values match everything.
type AssignmentFilter struct {
	ShiftID string
	Date    *time.Time
}

// WindowHours returns the length of the start..end window in hours, wrapping
// past midnight when end is not after start.
func WindowHours(start, end string) (float64, error) {
	s, err := validator.ClockMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := validator.ClockMinutes(end)
	if err != nil {
		return 0, err
	}
	minutes := e - s
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return math.Round(float64(minutes)/60*100) / 100, nil
}

// CoveragePercent returns assigned/capacity as a percentage clamped to [0,100]
// and rounded to one decimal.
func CoveragePercent(assigned, capacity int) float64 {
	if capacity <= 0 || assigned <= 0 {
		return 0
	}
	pct := float64(assigned) / float64(capacity) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}
