package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	store *Store
}

func NewPayrollRepository(store *Store) payroll.PayrollRepository {
	return &payrollRepository{store: store}
}

// CreateIfAbsent implements payroll.PayrollRepository.
func (r *payrollRepository) CreateIfAbsent(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	created := false
	err := r.store.write(ctx, func(t *tables) error {
		key := payrollKey{rec.EmployeeID, rec.PeriodYear, rec.PeriodMonth}
		if id, ok := t.payrollIndex[key]; ok {
			rec = t.payroll[id]
			return nil
		}
		now := r.store.now().UTC()
		rec.ID = newID()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		t.payroll[rec.ID] = rec
		t.payrollIndex[key] = rec.ID
		created = true
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return rec, created, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	var found payroll.PayrollRecord
	err := r.store.read(ctx, func(t *tables) error {
		rec, ok := t.payroll[id]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		found = rec
		return nil
	})
	return found, err
}

// GetByIDForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.GetByID(ctx, id)
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, year, month int) (payroll.PayrollRecord, error) {
	var found payroll.PayrollRecord
	err := r.store.read(ctx, func(t *tables) error {
		id, ok := t.payrollIndex[payrollKey{employeeID, year, month}]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		found = t.payroll[id]
		return nil
	})
	return found, err
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	from := filter.FromYear*100 + filter.FromMonth
	to := filter.ToYear*100 + filter.ToMonth
	var out []payroll.PayrollRecord
	err := r.store.read(ctx, func(t *tables) error {
		for _, rec := range t.payroll {
			if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
				continue
			}
			period := rec.PeriodYear*100 + rec.PeriodMonth
			if from > 0 && period < from {
				continue
			}
			if to > 0 && period > to {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b payroll.PayrollRecord) int {
		return cmp.Or(
			cmp.Compare(b.PeriodYear, a.PeriodYear),
			cmp.Compare(b.PeriodMonth, a.PeriodMonth),
			cmp.Compare(a.EmployeeName, b.EmployeeName),
		)
	})
	return out, err
}

// UpdatePayment implements payroll.PayrollRepository.
func (r *payrollRepository) UpdatePayment(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	var updated payroll.PayrollRecord
	err := r.store.write(ctx, func(t *tables) error {
		current, ok := t.payroll[rec.ID]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		current.Status = rec.Status
		current.PaymentDate = rec.PaymentDate
		current.PaymentMethod = rec.PaymentMethod
		current.CounterpartyAccount = rec.CounterpartyAccount
		current.JournalEntryID = rec.JournalEntryID
		current.UpdatedAt = r.store.now().UTC()
		t.payroll[rec.ID] = current
		updated = current
		return nil
	})
	return updated, err
}

// UpdateStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	var updated payroll.PayrollRecord
	err := r.store.write(ctx, func(t *tables) error {
		current, ok := t.payroll[id]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		current.Status = status
		current.UpdatedAt = r.store.now().UTC()
		t.payroll[id] = current
		updated = current
		return nil
	})
	return updated, err
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(t *tables) error {
		rec, ok := t.payroll[id]
		if !ok {
			return payroll.ErrPayrollRecordNotFound
		}
		delete(t.payroll, id)
		delete(t.payrollIndex, payrollKey{rec.EmployeeID, rec.PeriodYear, rec.PeriodMonth})
		return nil
	})
}

// Summary implements payroll.PayrollRepository.
func (r *payrollRepository) Summary(ctx context.Context, year, month int) (payroll.Summary, error) {
	summary := payroll.Summary{
		PeriodYear:      year,
		PeriodMonth:     month,
		TotalBaseSalary: decimal.Zero,
		TotalAllowances: decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalOvertime:   decimal.Zero,
		TotalNetSalary:  decimal.Zero,
	}
	err := r.store.read(ctx, func(t *tables) error {
		for _, rec := range t.payroll {
			if rec.PeriodYear != year || rec.PeriodMonth != month {
				continue
			}
			switch rec.Status {
			case payroll.PayrollStatusPending:
				summary.PendingCount++
			case payroll.PayrollStatusPaid:
				summary.PaidCount++
			case payroll.PayrollStatusCancelled:
				summary.CancelledCount++
				continue
			}
			summary.TotalEmployees++
			summary.TotalBaseSalary = summary.TotalBaseSalary.Add(rec.BaseSalary)
			summary.TotalAllowances = summary.TotalAllowances.Add(rec.TotalAllowances)
			summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
			summary.TotalOvertime = summary.TotalOvertime.Add(rec.OvertimeAmount)
			summary.TotalNetSalary = summary.TotalNetSalary.Add(rec.NetSalary)
		}
		return nil
	})
	return summary, err
}
