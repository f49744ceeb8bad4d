package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	EmployeeName string `json:"employee_name" validate:"required"`
	Date         string `json:"date" validate:"required,date"`
	Time         string `json:"time" validate:"required,clock"`
}

func (r *CheckInRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,date"`
	Time       string `json:"time" validate:"required,clock"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r).Err()
}

// MarkStatusRequest is used for both absent and on-leave markings.
type MarkStatusRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	EmployeeName string  `json:"employee_name" validate:"required"`
	Date         string  `json:"date" validate:"required,date"`
	Reason       *string `json:"reason,omitempty"`
}

func (r *MarkStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

type UpdateStatusRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required,date"`
	Status     string  `json:"status" validate:"required,oneof=present absent on-leave late early"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

// EmployeeRangeRequest selects one employee's records; both bounds are optional
// for queries and required for stats.
type EmployeeRangeRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Start      *string `json:"start,omitempty" validate:"omitempty,date"`
	End        *string `json:"end,omitempty" validate:"omitempty,date"`
}

func (r *EmployeeRangeRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && r.Start != nil && r.End != nil && *r.End < *r.Start {
		errs.Add("end", "must not be before start")
	}
	return errs.Err()
}

// ValidateBounded validates r and additionally requires both bounds.
func (r *EmployeeRangeRequest) ValidateBounded() error {
	var errs validator.ValidationErrors
	if r.Start == nil {
		errs.Add("start", "is required")
	}
	if r.End == nil {
		errs.Add("end", "is required")
	}
	if err := r.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	return errs.Err()
}

// Bounds parses the optional range.
func (r *EmployeeRangeRequest) Bounds() (start, end *time.Time) {
	if r.Start != nil {
		t, _ := validator.IsValidDate(*r.Start)
		start = &t
	}
	if r.End != nil {
		t, _ := validator.IsValidDate(*r.End)
		end = &t
	}
	return start, end
}

type DateRangeRequest struct {
	Start string `json:"start" validate:"required,date"`
	End   string `json:"end" validate:"required,date"`
}

func (r *DateRangeRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && r.End < r.Start {
		errs.Add("end", "must not be before start")
	}
	return errs.Err()
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Date         string   `json:"date"`
	CheckIn      *string  `json:"check_in"`
	CheckOut     *string  `json:"check_out"`
	WorkedHours  *float64 `json:"worked_hours"`
	Status       string   `json:"status"`
	Notes        *string  `json:"notes,omitempty"`
	UpdatedAt    string   `json:"updated_at"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format(validator.DateLayout),
		CheckIn:      r.CheckIn,
		CheckOut:     r.CheckOut,
		WorkedHours:  r.WorkedHours,
		Status:       string(r.Status),
		Notes:        r.Notes,
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}

type StatsResponse struct {
	EmployeeID  string  `json:"employee_id"`
	Start       *string `json:"start,omitempty"`
	End         *string `json:"end,omitempty"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	LeaveDays   int     `json:"leave_days"`
	TotalHours  float64 `json:"total_hours"`
	TotalDays   int     `json:"total_days"`
}
