package shift

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

type CreateShiftRequest struct {
	Code          string  `json:"code,omitempty" validate:"omitempty,max=32"`
	Name          string  `json:"name" validate:"required,max=100"`
	Type          string  `json:"type" validate:"required,oneof=morning evening night custom"`
	StartTime     string  `json:"start_time" validate:"required,clock"`
	EndTime       string  `json:"end_time" validate:"required,clock"`
	DurationHours float64 `json:"duration_hours,omitempty" validate:"gte=0,lte=24"`
	MaxEmployees  int     `json:"max_employees" validate:"min=1"`
	Location      *string `json:"location,omitempty"`
	Color         *string `json:"color,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (r *CreateShiftRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.Name) && errs.ToMap()["name"] == "" {
		errs.Add("name", "is required")
	}
	if len(errs) > 0 {
		return errs
	}

	window, err := WindowHours(r.StartTime, r.EndTime)
	if err != nil {
		errs.Add("start_time", err.Error())
		return errs
	}
	if r.DurationHours == 0 {
		r.DurationHours = window
	} else if !durationMatches(r.DurationHours, window) {
		errs.Add("duration_hours", fmt.Sprintf("does not match the %s-%s window (%.2f hours)", r.StartTime, r.EndTime, window))
	}

	return errs.Err()
}

type UpdateShiftRequest struct {
	ID            string   `json:"-"`
	Code          *string  `json:"code,omitempty"`
	Name          *string  `json:"name,omitempty"`
	Type          *string  `json:"type,omitempty"`
	StartTime     *string  `json:"start_time,omitempty"`
	EndTime       *string  `json:"end_time,omitempty"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
	MaxEmployees  *int     `json:"max_employees,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Color         *string  `json:"color,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Apply merges the patch into current and validates the result.
func (r *UpdateShiftRequest) Apply(current Shift) (Shift, error) {
	merged := current
	if r.Code != nil {
		merged.Code = strings.TrimSpace(*r.Code)
	}
	if r.Name != nil {
		merged.Name = strings.TrimSpace(*r.Name)
	}
	if r.Type != nil {
		merged.Type = ShiftType(*r.Type)
	}
	if r.StartTime != nil {
		merged.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		merged.EndTime = *r.EndTime
	}
	if r.MaxEmployees != nil {
		merged.MaxEmployees = *r.MaxEmployees
	}
	if r.Location != nil {
		merged.Location = r.Location
	}
	if r.Color != nil {
		merged.Color = r.Color
	}
	if r.Notes != nil {
		merged.Notes = r.Notes
	}

	check := CreateShiftRequest{
		Code:         merged.Code,
		Name:         merged.Name,
		Type:         string(merged.Type),
		StartTime:    merged.StartTime,
		EndTime:      merged.EndTime,
		MaxEmployees: merged.MaxEmployees,
	}
	// An explicit duration must agree with the window; moving the window
	// without one recomputes it.
	if r.DurationHours != nil {
		check.DurationHours = *r.DurationHours
	}
	var errs validator.ValidationErrors
	if r.Code != nil && merged.Code == "" {
		errs.Add("code", "must not be empty")
	}
	if err := check.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if err := errs.Err(); err != nil {
		return Shift{}, err
	}
	merged.DurationHours = check.DurationHours

	return merged, nil
}

type ShiftResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	MaxEmployees  int     `json:"max_employees"`
	Location      *string `json:"location,omitempty"`
	Color         *string `json:"color,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		Type:          string(s.Type),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		DurationHours: s.DurationHours,
		MaxEmployees:  s.MaxEmployees,
		Location:      s.Location,
		Color:         s.Color,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
}

// ========================================
// ASSIGNMENT DTOs
// ========================================

type AssignEmployeeRequest struct {
	ShiftID  string  `json:"-" validate:"required"`
	Employee string  `json:"employee" validate:"required"`
	Date     string  `json:"date" validate:"required,date"`
	Role     *string `json:"role,omitempty"`
	Status   string  `json:"status,omitempty" validate:"omitempty,oneof=confirmed pending cancelled"`
}

func (r *AssignEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && validator.IsEmpty(r.Employee) {
		errs.Add("employee", "is required")
	}
	return errs.Err()
}

type AssignmentResponse struct {
	ID        string  `json:"id"`
	ShiftID   string  `json:"shift_id"`
	Employee  string  `json:"employee"`
	Role      *string `json:"role,omitempty"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func NewAssignmentResponse(a Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID,
		ShiftID:   a.ShiftID,
		Employee:  a.Employee,
		Role:      a.Role,
		Date:      a.Date.Format(validator.DateLayout),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// AssignmentResult reports the stored assignment and whether the shift was
// already at capacity for that date. Over-capacity assignments still succeed.
type AssignmentResult struct {
	Assignment       AssignmentResponse `json:"assignment"`
	CapacityExceeded bool               `json:"capacity_exceeded"`
	AssignedCount    int                `json:"assigned_count"`
	Capacity         int                `json:"capacity"`
}

type ListAssignmentsRequest struct {
	ShiftID string  `json:"shift_id,omitempty"`
	Date    *string `json:"date,omitempty" validate:"omitempty,date"`
}

func (r *ListAssignmentsRequest) Validate() error {
	return validator.Struct(r).Err()
}

type UpdateAssignmentStatusRequest struct {
	ID     string `json:"-" validate:"required"`
	Status string `json:"status" validate:"required,oneof=confirmed pending cancelled"`
}

func (r *UpdateAssignmentStatusRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========================================
// COVERAGE DTOs
// ========================================

type CoverageRequest struct {
	ShiftID string  `json:"shift_id" validate:"required"`
	Date    *string `json:"date,omitempty" validate:"omitempty,date"`
}

func (r *CoverageRequest) Validate() error {
	return validator.Struct(r).Err()
}

type CoverageResponse struct {
	ShiftID   string  `json:"shift_id"`
	ShiftName string  `json:"shift_name"`
	Date      *string `json:"date,omitempty"`
	Assigned  int     `json:"assigned"`
	Capacity  int     `json:"capacity"`
	Percent   float64 `json:"percent"`
}

func durationMatches(given, window float64) bool {
	return math.Abs(given-window) <= 1.0/60
}
