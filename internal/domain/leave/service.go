package leave

import (
	"context"
)

type LeaveService interface {
	// Requests
	CreateRequest(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, status *string) ([]LeaveRequestResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)

	// Decisions
	Approve(ctx context.Context, req ApproveLeaveRequest) (ApproveLeaveResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)

	// Balances
	Balance(ctx context.Context, employeeID string) (BalanceResponse, error)
	SetAllotment(ctx context.Context, req SetAllotmentRequest) (BalanceResponse, error)
}
