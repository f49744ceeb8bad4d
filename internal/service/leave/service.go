package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// AttendanceMarker is the slice of the attendance ledger that approval writes to.
type AttendanceMarker interface {
	MarkOnLeave(ctx context.Context, req attendance.MarkStatusRequest) (attendance.AttendanceResponse, error)
}

type Options struct {
	Policy       leave.BalancePolicy
	Allotment    leave.Allotment
	QueryTimeout time.Duration
}

type LeaveServiceImpl struct {
	tx          database.Transactor
	requestRepo leave.LeaveRequestRepository
	balanceRepo leave.LeaveBalanceRepository
	attendance  AttendanceMarker
	opts        Options
	now         func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	requestRepo leave.LeaveRequestRepository,
	balanceRepo leave.LeaveBalanceRepository,
	attendance AttendanceMarker,
	opts Options,
) leave.LeaveService {
	if opts.Policy == "" {
		opts.Policy = leave.BalancePolicyFlag
	}
	if opts.Allotment == (leave.Allotment{}) {
		opts.Allotment = leave.DefaultAllotment
	}
	return &LeaveServiceImpl{
		tx:          tx,
		requestRepo: requestRepo,
		balanceRepo: balanceRepo,
		attendance:  attendance,
		opts:        opts,
		now:         time.Now,
	}
}

// ========== REQUESTS ==========

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	created, err := l.requestRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		Type:         leave.LeaveType(req.Type),
		StartDate:    start,
		EndDate:      end,
		Days:         leave.DaysInRange(start, end),
		Reason:       req.Reason,
		Status:       leave.LeaveRequestStatusPending,
		RequestedAt:  l.now().UTC(),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	request, err := l.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, status *string) ([]leave.LeaveRequestResponse, error) {
	var filter *leave.LeaveRequestStatus
	if status != nil && *status != "" {
		st := leave.LeaveRequestStatus(*status)
		switch st {
		case leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved, leave.LeaveRequestStatusRejected:
		default:
			var errs validator.ValidationErrors
			errs.Add("status", "must be one of: pending, approved, rejected")
			return nil, errs
		}
		filter = &st
	}

	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	requests, err := l.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// ListByEmployee implements leave.LeaveService.
func (l *LeaveServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	requests, err := l.requestRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(requests), nil
}

// ========== DECISIONS ==========

// Approve implements leave.LeaveService.
//
// The status flip, the on-leave attendance rows and the balance update commit
// together. Under BalancePolicyEnforce an overdraft aborts the whole approval.
func (l *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.ApproveLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApproveLeaveResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	var result leave.ApproveLeaveResponse
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.tx.Lock(ctx, "leave-request:"+req.ID); err != nil {
			return err
		}

		request, err := l.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if err := l.tx.Lock(ctx, "leave-balance:"+request.EmployeeID); err != nil {
			return err
		}
		balance, err := l.loadBalance(ctx, request.EmployeeID)
		if err != nil {
			return err
		}
		tracked, exceeds := balance.Consume(request.Type, request.Days)
		if exceeds && l.opts.Policy == leave.BalancePolicyEnforce {
			return leave.ErrInsufficientBalance
		}

		approvedAt := l.now().UTC()
		approver := strings.TrimSpace(req.ApprovedBy)
		request.Status = leave.LeaveRequestStatusApproved
		request.ApprovedBy = &approver
		request.ApprovedAt = &approvedAt
		request, err = l.requestRepo.UpdateDecision(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		reason := fmt.Sprintf("%s leave", request.Type)
		if request.Reason != nil && strings.TrimSpace(*request.Reason) != "" {
			reason = *request.Reason
		}
		for _, day := range request.Dates() {
			_, err := l.attendance.MarkOnLeave(ctx, attendance.MarkStatusRequest{
				EmployeeID:   request.EmployeeID,
				EmployeeName: request.EmployeeName,
				Date:         day.Format(validator.DateLayout),
				Reason:       &reason,
			})
			if err != nil {
				return fmt.Errorf("failed to mark %s on leave: %w", day.Format(validator.DateLayout), err)
			}
			result.AttendanceMarked++
		}

		if tracked {
			saved, err := l.balanceRepo.Upsert(ctx, balance)
			if err != nil {
				return fmt.Errorf("failed to update leave balance: %w", err)
			}
			resp := leave.NewBalanceResponse(saved)
			result.Balance = &resp
		}

		result.Request = leave.NewLeaveRequestResponse(request)
		result.ExceedsAllotment = exceeds
		return nil
	})
	if err != nil {
		return leave.ApproveLeaveResponse{}, err
	}

	if result.ExceedsAllotment {
		slog.Warn("Leave approved beyond allotment",
			"leave_request_id", req.ID,
			"employee_id", result.Request.EmployeeID,
			"type", result.Request.Type,
			"days", result.Request.Days,
		)
	}

	return result, nil
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	var rejected leave.LeaveRequest
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.tx.Lock(ctx, "leave-request:"+req.ID); err != nil {
			return err
		}

		request, err := l.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		reason := strings.TrimSpace(req.Reason)
		request.Status = leave.LeaveRequestStatusRejected
		request.RejectionReason = &reason
		rejected, err = l.requestRepo.UpdateDecision(ctx, request)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(rejected), nil
}

// ========== BALANCES ==========

// Balance implements leave.LeaveService. Employees without a stored row get the
// default allotment; nothing is written.
func (l *LeaveServiceImpl) Balance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	balance, err := l.loadBalance(ctx, employeeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.NewBalanceResponse(balance), nil
}

// SetAllotment implements leave.LeaveService.
func (l *LeaveServiceImpl) SetAllotment(ctx context.Context, req leave.SetAllotmentRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, l.opts.QueryTimeout)
	defer cancel()

	var saved leave.Balance
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.tx.Lock(ctx, "leave-balance:"+req.EmployeeID); err != nil {
			return err
		}

		balance, err := l.loadBalance(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if req.Annual != nil {
			balance.AnnualTotal = *req.Annual
		}
		if req.Sick != nil {
			balance.SickTotal = *req.Sick
		}
		if req.Emergency != nil {
			balance.EmergencyTotal = *req.Emergency
		}

		saved, err = l.balanceRepo.Upsert(ctx, balance)
		if err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	return leave.NewBalanceResponse(saved), nil
}

func (l *LeaveServiceImpl) loadBalance(ctx context.Context, employeeID string) (leave.Balance, error) {
	balance, err := l.balanceRepo.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
			return leave.NewBalance(employeeID, l.opts.Allotment), nil
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}

func toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses
}
