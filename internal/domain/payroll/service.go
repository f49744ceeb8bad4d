package payroll

import "context"

type PayrollService interface {
	// Process creates the record for (employee, year, month), or returns the
	// existing one with Created=false.
	Process(ctx context.Context, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	ProcessMonthlyBatch(ctx context.Context, req BatchPayrollRequest) (BatchPayrollResponse, error)

	MarkPaid(ctx context.Context, req MarkPaidRequest) (PayrollRecordResponse, error)
	Cancel(ctx context.Context, id string) (PayrollRecordResponse, error)
	Delete(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (PayrollRecordResponse, error)
	ByEmployee(ctx context.Context, req EmployeePayrollRequest) ([]PayrollRecordResponse, error)
	Summary(ctx context.Context, req SummaryRequest) (PayrollSummaryResponse, error)
}
