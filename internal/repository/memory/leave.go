package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{store: store}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	err := r.store.write(ctx, func(t *tables) error {
		now := r.store.now().UTC()
		req.ID = newID()
		req.CreatedAt = now
		req.UpdatedAt = now
		t.leaveRequests[req.ID] = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var found leave.LeaveRequest
	err := r.store.read(ctx, func(t *tables) error {
		req, ok := t.leaveRequests[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		found = req
		return nil
	})
	return found, err
}

// GetByIDForUpdate implements leave.LeaveRequestRepository. Units of work are
// serialized by the store, so a plain read suffices.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, status *leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(req leave.LeaveRequest) bool {
		return status == nil || req.Status == *status
	})
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(ctx, func(req leave.LeaveRequest) bool {
		return req.EmployeeID == employeeID
	})
}

func (r *leaveRequestRepository) filter(ctx context.Context, keep func(leave.LeaveRequest) bool) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	err := r.store.read(ctx, func(t *tables) error {
		for _, req := range t.leaveRequests {
			if keep(req) {
				out = append(out, req)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b leave.LeaveRequest) int {
		if c := b.RequestedAt.Compare(a.RequestedAt); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, err
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateDecision(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	var updated leave.LeaveRequest
	err := r.store.write(ctx, func(t *tables) error {
		current, ok := t.leaveRequests[req.ID]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		current.Status = req.Status
		current.ApprovedBy = req.ApprovedBy
		current.ApprovedAt = req.ApprovedAt
		current.RejectionReason = req.RejectionReason
		current.UpdatedAt = r.store.now().UTC()
		t.leaveRequests[req.ID] = current
		updated = current
		return nil
	})
	return updated, err
}

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{store: store}
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID string) (leave.Balance, error) {
	var found leave.Balance
	err := r.store.read(ctx, func(t *tables) error {
		b, ok := t.balances[employeeID]
		if !ok {
			return leave.ErrLeaveBalanceNotFound
		}
		found = b
		return nil
	})
	return found, err
}

// Upsert implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Upsert(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	err := r.store.write(ctx, func(t *tables) error {
		b.UpdatedAt = r.store.now().UTC()
		t.balances[b.EmployeeID] = b
		return nil
	})
	if err != nil {
		return leave.Balance{}, err
	}
	return b, nil
}
