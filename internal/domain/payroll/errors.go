package payroll

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

var (
	ErrPayrollRecordNotFound       = apperror.NotFound("payroll record not found")
	ErrPayrollRecordAlreadyPaid    = apperror.Dependency("payroll record already paid")
	ErrPayrollRecordCancelled      = apperror.Dependency("payroll record is cancelled")
	ErrPayrollRecordNotPending     = apperror.Dependency("payroll record is not pending")
	ErrCannotDeletePaidRecord      = apperror.Dependency("cannot delete paid payroll record")
	ErrEmployeeHasNoBaseSalary     = apperror.Dependency("employee has no base salary configured")
	ErrPaymentAccountNotConfigured = apperror.Dependency("no ledger account configured for payment method")
)
