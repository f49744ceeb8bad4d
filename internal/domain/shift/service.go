package shift

import (
	"context"
)

type ShiftService interface {
	// Shift templates
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context) ([]ShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	// DeleteShift removes the shift and cascades to its assignments.
	DeleteShift(ctx context.Context, id string) error

	// Assignments
	AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (AssignmentResult, error)
	ListAssignments(ctx context.Context, req ListAssignmentsRequest) ([]AssignmentResponse, error)
	UpdateAssignmentStatus(ctx context.Context, req UpdateAssignmentStatusRequest) (AssignmentResponse, error)
	RemoveAssignment(ctx context.Context, id string) error

	// Coverage
	Coverage(ctx context.Context, req CoverageRequest) (CoverageResponse, error)
	CoverageSummary(ctx context.Context, date *string) ([]CoverageResponse, error)
}
