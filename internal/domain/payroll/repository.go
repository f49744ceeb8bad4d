package payroll

import "context"

type PayrollRepository interface {
	// CreateIfAbsent inserts record unless one exists for the same employee and
	// period. It returns the stored record and whether this call created it.
	CreateIfAbsent(ctx context.Context, record PayrollRecord) (PayrollRecord, bool, error)

	GetByID(ctx context.Context, id string) (PayrollRecord, error)

	// GetByIDForUpdate reads the record and holds it until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (PayrollRecord, error)

	GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (PayrollRecord, error)

	// List returns records newest period first.
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, error)

	// UpdatePayment persists status, payment fields and journal entry id.
	UpdatePayment(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	UpdateStatus(ctx context.Context, id string, status PayrollStatus) (PayrollRecord, error)
	Delete(ctx context.Context, id string) error

	Summary(ctx context.Context, year, month int) (Summary, error)
}
