package leave

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound         = apperror.NotFound("leave request not found")
	ErrLeaveRequestAlreadyProcessed = apperror.Dependency("leave request already processed")
	ErrInsufficientBalance          = apperror.Dependency("insufficient leave balance")
	ErrLeaveBalanceNotFound         = apperror.NotFound("leave balance not found")
)
