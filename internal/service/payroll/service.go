package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// StatsReader is the read-only view of the attendance ledger payroll needs.
type StatsReader interface {
	StatsBetween(ctx context.Context, employeeID string, start, end *time.Time) (attendance.Stats, error)
}

type Options struct {
	Currency      string
	StandardHours float64
	// Accounts maps a payment method to the ledger account credited on payment.
	Accounts         map[payroll.PaymentMethod]string
	QueryTimeout     time.Duration
	BatchConcurrency int
}

type PayrollServiceImpl struct {
	tx          database.Transactor
	payrollRepo payroll.PayrollRepository
	stats       StatsReader
	directory   employee.Directory
	poster      journal.Poster
	opts        Options
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	stats StatsReader,
	directory employee.Directory,
	poster journal.Poster,
	opts Options,
) payroll.PayrollService {
	if opts.Currency == "" {
		opts.Currency = money.DefaultCurrency
	}
	if opts.StandardHours <= 0 {
		opts.StandardHours = 8
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 8
	}
	return &PayrollServiceImpl{
		tx:          tx,
		payrollRepo: payrollRepo,
		stats:       stats,
		directory:   directory,
		poster:      poster,
		opts:        opts,
	}
}

// ========== PROCESSING ==========

// Process implements payroll.PayrollService.
func (s *PayrollServiceImpl) Process(ctx context.Context, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	amounts := payroll.Compute(req.Components())
	record, created, err := s.payrollRepo.CreateIfAbsent(ctx, payroll.PayrollRecord{
		EmployeeID:      strings.TrimSpace(req.EmployeeID),
		EmployeeName:    strings.TrimSpace(req.EmployeeName),
		PeriodYear:      req.Year,
		PeriodMonth:     req.Month,
		BaseSalary:      req.BasicSalary,
		TotalAllowances: req.Allowances,
		ExtraDeductions: req.ExtraDeductions,
		AbsentDeduction: amounts.AbsentDeduction,
		TotalDeductions: amounts.TotalDeductions,
		OvertimeHours:   req.OvertimeHours,
		OvertimeAmount:  amounts.OvertimePay,
		NetSalary:       amounts.NetSalary,
		AbsentDays:      req.AbsentDays,
		LeaveDays:       req.LeaveDays,
		Status:          payroll.PayrollStatusPending,
		Notes:           req.Notes,
	})
	if err != nil {
		return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return payroll.ProcessPayrollResponse{
		Record:  payroll.NewPayrollRecordResponse(record, s.opts.Currency),
		Created: created,
	}, nil
}

// ProcessMonthlyBatch implements payroll.PayrollService.
func (s *PayrollServiceImpl) ProcessMonthlyBatch(ctx context.Context, req payroll.BatchPayrollRequest) (payroll.BatchPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchPayrollResponse{}, err
	}

	employees := req.Employees
	if len(employees) == 0 {
		active, err := s.activeEmployees(ctx)
		if err != nil {
			return payroll.BatchPayrollResponse{}, err
		}
		employees = active
	}

	response := payroll.BatchPayrollResponse{
		PeriodYear:  req.Year,
		PeriodMonth: req.Month,
		MonthLabel:  payroll.MonthLabel(req.Year, req.Month),
		Processed:   []payroll.PayrollRecordResponse{},
		Skipped:     []payroll.SkippedEmployee{},
	}

	// Gather attendance for the whole month concurrently; processing below
	// stays sequential so results keep the input order.
	start, end := payroll.PeriodBounds(req.Year, req.Month)
	stats := make([]attendance.Stats, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, emp := range employees {
		g.Go(func() error {
			st, err := s.stats.StatsBetween(gctx, emp.EmployeeID, &start, &end)
			if err != nil {
				return fmt.Errorf("failed to get attendance stats for %s: %w", emp.EmployeeID, err)
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.BatchPayrollResponse{}, err
	}

	for i, emp := range employees {
		if !emp.BasicSalary.IsPositive() {
			response.Skipped = append(response.Skipped, payroll.SkippedEmployee{
				EmployeeID: emp.EmployeeID,
				Reason:     payroll.ErrEmployeeHasNoBaseSalary.Error(),
			})
			continue
		}

		st := stats[i]
		result, err := s.Process(ctx, payroll.ProcessPayrollRequest{
			EmployeeID:          emp.EmployeeID,
			EmployeeName:        emp.EmployeeName,
			Year:                req.Year,
			Month:               req.Month,
			BasicSalary:         emp.BasicSalary,
			Allowances:          req.Allowances[emp.EmployeeID],
			ExtraDeductions:     req.Deductions[emp.EmployeeID],
			OvertimeHours:       payroll.EstimateOvertime(st.TotalHours, st.PresentDays, s.opts.StandardHours),
			OvertimeRate:        req.OvertimeRate,
			AbsentDays:          st.AbsentDays,
			LeaveDays:           st.LeaveDays,
			AbsentDeductionRate: req.AbsentDeductionRate,
		})
		if err != nil {
			return response, fmt.Errorf("failed to process payroll for %s: %w", emp.EmployeeID, err)
		}

		if !result.Created {
			response.Skipped = append(response.Skipped, payroll.SkippedEmployee{
				EmployeeID: emp.EmployeeID,
				PayrollID:  result.Record.ID,
				Reason:     "already processed",
			})
			continue
		}
		response.Processed = append(response.Processed, result.Record)
	}

	slog.Info("Processed monthly payroll batch",
		"period", response.MonthLabel,
		"processed", len(response.Processed),
		"skipped", len(response.Skipped),
	)

	return response, nil
}

func (s *PayrollServiceImpl) activeEmployees(ctx context.Context) ([]payroll.BatchEmployee, error) {
	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	active, err := s.directory.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	employees := make([]payroll.BatchEmployee, 0, len(active))
	for _, e := range active {
		employees = append(employees, payroll.BatchEmployee{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			BasicSalary:  e.BaseSalary,
		})
	}
	return employees, nil
}

// ========== PAYMENT ==========

// MarkPaid implements payroll.PayrollService.
//
// The status change and the journal entry commit together. A record that is
// already paid or cancelled is rejected, so a payroll id never posts twice.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	paymentDate, _ := validator.IsValidDate(req.PaymentDate)
	method := payroll.PaymentMethod(req.PaymentMethod)

	creditAccount := s.opts.Accounts[method]
	if creditAccount == "" {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("%w: %s", payroll.ErrPaymentAccountNotConfigured, method)
	}

	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	var paid payroll.PayrollRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.Lock(ctx, "payroll:"+req.ID); err != nil {
			return err
		}

		record, err := s.payrollRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		switch record.Status {
		case payroll.PayrollStatusPaid:
			return payroll.ErrPayrollRecordAlreadyPaid
		case payroll.PayrollStatusCancelled:
			return payroll.ErrPayrollRecordCancelled
		}

		debitAccount := "Salaries - " + record.EmployeeName
		var counterparty *string
		if req.CounterpartyAccount != nil && strings.TrimSpace(*req.CounterpartyAccount) != "" {
			acct := strings.TrimSpace(*req.CounterpartyAccount)
			debitAccount = acct
			counterparty = &acct
		}

		entry, err := s.poster.Post(ctx, journal.Entry{
			Date: paymentDate,
			Description: fmt.Sprintf("Salary payment - %s - %s (%s)",
				record.EmployeeName, record.MonthLabel(), money.Format(record.NetSalary, s.opts.Currency)),
			DebitAccount:    debitAccount,
			CreditAccount:   creditAccount,
			Amount:          money.Round(record.NetSalary, s.opts.Currency),
			Reference:       fmt.Sprintf("PAY-%04d-%02d-%s", record.PeriodYear, record.PeriodMonth, record.EmployeeID),
			Status:          journal.StatusApproved,
			Type:            journal.TypeAutomatic,
			OperationType:   journal.OperationTypePaymentVoucher,
			SourceReference: record.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to post journal entry: %w", err)
		}

		record.Status = payroll.PayrollStatusPaid
		record.PaymentDate = &paymentDate
		record.PaymentMethod = &method
		record.CounterpartyAccount = counterparty
		record.JournalEntryID = &entry.ID

		paid, err = s.payrollRepo.UpdatePayment(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to update payroll record: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return payroll.NewPayrollRecordResponse(paid, s.opts.Currency), nil
}

// Cancel implements payroll.PayrollService.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	var cancelled payroll.PayrollRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.Lock(ctx, "payroll:"+id); err != nil {
			return err
		}

		record, err := s.payrollRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if record.Status != payroll.PayrollStatusPending {
			return payroll.ErrPayrollRecordNotPending
		}

		cancelled, err = s.payrollRepo.UpdateStatus(ctx, id, payroll.PayrollStatusCancelled)
		return err
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return payroll.NewPayrollRecordResponse(cancelled, s.opts.Currency), nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tx.Lock(ctx, "payroll:"+id); err != nil {
			return err
		}

		record, err := s.payrollRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if record.Status == payroll.PayrollStatusPaid {
			return payroll.ErrCannotDeletePaidRecord
		}

		return s.payrollRepo.Delete(ctx, id)
	})
}

// ========== QUERIES ==========

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewPayrollRecordResponse(record, s.opts.Currency), nil
}

// ByEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) ByEmployee(ctx context.Context, req payroll.EmployeePayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	records, err := s.payrollRepo.List(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, payroll.NewPayrollRecordResponse(r, s.opts.Currency))
	}
	return responses, nil
}

// Summary implements payroll.PayrollService.
func (s *PayrollServiceImpl) Summary(ctx context.Context, req payroll.SummaryRequest) (payroll.PayrollSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	ctx, cancel := database.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	summary, err := s.payrollRepo.Summary(ctx, req.Year, req.Month)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return payroll.NewPayrollSummaryResponse(summary, s.opts.Currency), nil
}
