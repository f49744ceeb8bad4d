package leave

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	EmployeeName string  `json:"employee_name" validate:"required"`
	Type         string  `json:"type" validate:"required,oneof=annual sick emergency maternity pilgrimage other"`
	StartDate    string  `json:"start_date" validate:"required,date"`
	EndDate      string  `json:"end_date" validate:"required,date"`
	Reason       *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	// Same layout, so lexical order is date order.
	if r.EndDate < r.StartDate {
		errs.Add("end_date", "must not be before start_date")
	}
	return errs.Err()
}

type ApproveLeaveRequest struct {
	ID         string `json:"-" validate:"required"`
	ApprovedBy string `json:"approved_by" validate:"required"`
}

func (r *ApproveLeaveRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RejectLeaveRequest struct {
	ID     string `json:"-" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

func (r *RejectLeaveRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && validator.IsEmpty(r.Reason) {
		errs.Add("reason", "is required")
	}
	return errs.Err()
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	Type            string  `json:"type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Days            int     `json:"days"`
	Reason          *string `json:"reason,omitempty"`
	Status          string  `json:"status"`
	RequestedAt     string  `json:"requested_at"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Type:            string(r.Type),
		StartDate:       r.StartDate.Format(validator.DateLayout),
		EndDate:         r.EndDate.Format(validator.DateLayout),
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          string(r.Status),
		RequestedAt:     r.RequestedAt.Format(time.RFC3339),
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
	}
	if r.ApprovedAt != nil {
		at := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

type ApproveLeaveResponse struct {
	Request          LeaveRequestResponse `json:"request"`
	Balance          *BalanceResponse     `json:"balance,omitempty"`
	ExceedsAllotment bool                 `json:"exceeds_allotment"`
	AttendanceMarked int                  `json:"attendance_marked"`
}

// ========================================
// BALANCE DTOs
// ========================================

type SetAllotmentRequest struct {
	EmployeeID string `json:"-" validate:"required"`
	Annual     *int   `json:"annual,omitempty" validate:"omitempty,min=0"`
	Sick       *int   `json:"sick,omitempty" validate:"omitempty,min=0"`
	Emergency  *int   `json:"emergency,omitempty" validate:"omitempty,min=0"`
}

func (r *SetAllotmentRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && r.Annual == nil && r.Sick == nil && r.Emergency == nil {
		errs.Add("request", "at least one of annual, sick or emergency is required")
	}
	return errs.Err()
}

type BucketResponse struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type BalanceResponse struct {
	EmployeeID string         `json:"employee_id"`
	Annual     BucketResponse `json:"annual"`
	Sick       BucketResponse `json:"sick"`
	Emergency  BucketResponse `json:"emergency"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID: b.EmployeeID,
		Annual:     bucket(b.AnnualTotal, b.AnnualUsed),
		Sick:       bucket(b.SickTotal, b.SickUsed),
		Emergency:  bucket(b.EmergencyTotal, b.EmergencyUsed),
	}
}

func bucket(total, used int) BucketResponse {
	return BucketResponse{Total: total, Used: used, Remaining: total - used}
}
