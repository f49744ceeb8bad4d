package leave

import (
	"context"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate reads the request and holds it until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// List returns requests newest first, optionally filtered by status.
	List(ctx context.Context, status *LeaveRequestStatus) ([]LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// UpdateDecision persists status, approver, approval time and rejection reason.
	UpdateDecision(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
}

type LeaveBalanceRepository interface {
	// Get returns ErrLeaveBalanceNotFound when the employee has no stored row.
	Get(ctx context.Context, employeeID string) (Balance, error)
	Upsert(ctx context.Context, balance Balance) (Balance, error)
}
