package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `id, employee_id, employee_name, period_year, period_month,
	base_salary, total_allowances, extra_deductions, absent_deduction, total_deductions,
	overtime_hours, overtime_amount, net_salary, absent_days, leave_days,
	status, payment_date, payment_method, counterparty_account, journal_entry_id::text, notes,
	created_at, updated_at`

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var p payroll.PayrollRecord
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeName, &p.PeriodYear, &p.PeriodMonth,
		&p.BaseSalary, &p.TotalAllowances, &p.ExtraDeductions, &p.AbsentDeduction, &p.TotalDeductions,
		&p.OvertimeHours, &p.OvertimeAmount, &p.NetSalary, &p.AbsentDays, &p.LeaveDays,
		&p.Status, &p.PaymentDate, &p.PaymentMethod, &p.CounterpartyAccount, &p.JournalEntryID, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ========== RECORDS ==========

// CreateIfAbsent implements payroll.PayrollRepository.
func (r *payrollRepository) CreateIfAbsent(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, employee_id, employee_name, period_year, period_month,
			base_salary, total_allowances, extra_deductions, absent_deduction, total_deductions,
			overtime_hours, overtime_amount, net_salary, absent_days, leave_days, status, notes
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (employee_id, period_year, period_month) DO NOTHING
		RETURNING ` + payrollColumns

	created, err := scanPayroll(q.QueryRow(ctx, query,
		record.EmployeeID, record.EmployeeName, record.PeriodYear, record.PeriodMonth,
		record.BaseSalary, record.TotalAllowances, record.ExtraDeductions, record.AbsentDeduction, record.TotalDeductions,
		record.OvertimeHours, record.OvertimeAmount, record.NetSalary, record.AbsentDays, record.LeaveDays,
		record.Status, record.Notes,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to create payroll record: %w", err)
	}

	// Conflict: the period is already processed for this employee.
	existing, err := r.GetByEmployeePeriod(ctx, record.EmployeeID, record.PeriodYear, record.PeriodMonth)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return existing, false, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.get(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE id::text = $1`, id)
}

// GetByIDForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.get(ctx, `SELECT `+payrollColumns+` FROM payroll_records WHERE id::text = $1 FOR UPDATE`, id)
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (payroll.PayrollRecord, error) {
	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
	`
	return r.get(ctx, query, employeeID, year, month)
}

func (r *payrollRepository) get(ctx context.Context, query string, args ...any) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	record, err := scanPayroll(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	// Periods compare as year*100+month; zero bounds are open.
	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records
		WHERE employee_id = $1
		  AND ($2::int = 0 OR period_year * 100 + period_month >= $2::int)
		  AND ($3::int = 0 OR period_year * 100 + period_month <= $3::int)
		ORDER BY period_year DESC, period_month DESC
	`

	from := filter.FromYear*100 + filter.FromMonth
	to := filter.ToYear*100 + filter.ToMonth

	rows, err := q.Query(ctx, query, filter.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.PayrollRecord, 0)
	for rows.Next() {
		record, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdatePayment implements payroll.PayrollRepository.
func (r *payrollRepository) UpdatePayment(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $2,
			payment_date = $3,
			payment_method = $4,
			counterparty_account = $5,
			journal_entry_id = $6::uuid,
			updated_at = NOW()
		WHERE id::text = $1
		RETURNING ` + payrollColumns

	updated, err := scanPayroll(q.QueryRow(ctx, query,
		record.ID, record.Status, record.PaymentDate, record.PaymentMethod, record.CounterpartyAccount, record.JournalEntryID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll payment: %w", err)
	}
	return updated, nil
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $2, updated_at = NOW()
		WHERE id::text = $1
		RETURNING ` + payrollColumns

	updated, err := scanPayroll(q.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll status: %w", err)
	}
	return updated, nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}

// ========== SUMMARY ==========

// Summary implements payroll.PayrollRepository. Cancelled records are counted
// but excluded from the money totals.
func (r *payrollRepository) Summary(ctx context.Context, year, month int) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'cancelled'),
			COALESCE(SUM(base_salary) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(total_allowances) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(total_deductions) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(overtime_amount) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(net_salary) FILTER (WHERE status <> 'cancelled'), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM payroll_records
		WHERE period_year = $1 AND period_month = $2
	`

	s := payroll.Summary{PeriodYear: year, PeriodMonth: month}
	err := q.QueryRow(ctx, query, year, month).Scan(
		&s.TotalEmployees, &s.TotalBaseSalary, &s.TotalAllowances, &s.TotalDeductions,
		&s.TotalOvertime, &s.TotalNetSalary, &s.PendingCount, &s.PaidCount, &s.CancelledCount,
	)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return s, nil
}
