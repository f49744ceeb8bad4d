package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/attendance"
	journalService "github.com/cmlabs-hris/workforce-backend-go/internal/service/journal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccounts = map[payroll.PaymentMethod]string{
	payroll.PaymentMethodCash:  "Cash on Hand",
	payroll.PaymentMethodBank:  "Bank - Operating",
	payroll.PaymentMethodCheck: "Bank - Checks",
}

type payrollFixture struct {
	payroll    payroll.PayrollService
	attendance *attendanceService.AttendanceServiceImpl
	journal    journal.JournalService
	employees  employee.DirectoryStore
}

func newPayrollFixture(poster journal.Poster) payrollFixture {
	store := memory.NewStore()
	att := attendanceService.NewAttendanceService(store, memory.NewAttendanceRepository(store), time.Second)
	jrn := journalService.NewJournalService(memory.NewJournalRepository(store), nil, time.Second)
	dir := memory.NewEmployeeDirectory(store)
	if poster == nil {
		poster = jrn
	}
	svc := NewPayrollService(store, memory.NewPayrollRepository(store), att, dir, poster, Options{
		Currency:      "USD",
		StandardHours: 8,
		Accounts:      testAccounts,
		QueryTimeout:  time.Second,
	})
	return payrollFixture{payroll: svc, attendance: att, journal: jrn, employees: dir}
}

type failingPoster struct{}

func (failingPoster) Post(context.Context, journal.Entry) (journal.Entry, error) {
	return journal.Entry{}, errors.New("ledger outbox unavailable")
}

func processRequest() payroll.ProcessPayrollRequest {
	return payroll.ProcessPayrollRequest{
		EmployeeID:          "emp-1",
		EmployeeName:        "Ana",
		Year:                2025,
		Month:               3,
		BasicSalary:         decimal.NewFromInt(8000),
		Allowances:          decimal.NewFromInt(500),
		AbsentDays:          2,
		AbsentDeductionRate: decimal.NewFromInt(100),
	}
}

func TestPayrollService_Process_ComputesNet(t *testing.T) {
	f := newPayrollFixture(nil)

	result, err := f.payroll.Process(context.Background(), processRequest())

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, decimal.NewFromInt(200).Equal(result.Record.TotalDeductions))
	assert.True(t, decimal.NewFromInt(8300).Equal(result.Record.NetSalary), "net = %s", result.Record.NetSalary)
	assert.Equal(t, string(payroll.PayrollStatusPending), result.Record.Status)
	assert.Equal(t, "March 2025", result.Record.MonthLabel)
}

func TestPayrollService_Process_Idempotent(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()

	first, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	req := processRequest()
	req.BasicSalary = decimal.NewFromInt(9000)
	second, err := f.payroll.Process(ctx, req)
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID)
	assert.True(t, decimal.NewFromInt(8000).Equal(second.Record.BaseSalary))
}

func TestPayrollService_Process_InvalidInput(t *testing.T) {
	f := newPayrollFixture(nil)

	req := processRequest()
	req.Month = 13
	req.BasicSalary = decimal.Zero
	req.OvertimeRate = decimal.NewFromInt(-1)
	_, err := f.payroll.Process(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "month")
	assert.Contains(t, fields, "basic_salary")
	assert.Contains(t, fields, "overtime_rate")
}

func TestPayrollService_MarkPaid_PostsOneJournalEntry(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)
	id := processed.Record.ID

	paid, err := f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentDate: "2025-04-01", PaymentMethod: "bank"})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusPaid), paid.Status)
	require.NotNil(t, paid.JournalEntryID)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2025-04-01", *paid.PaymentDate)

	_, err = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentDate: "2025-04-02", PaymentMethod: "cash"})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	entries, err := f.journal.ListBySource(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, *paid.JournalEntryID, entry.ID)
	assert.Equal(t, "Salaries - Ana", entry.DebitAccount)
	assert.Equal(t, "Bank - Operating", entry.CreditAccount)
	assert.Equal(t, "8300.00", entry.Amount.String())
	assert.Equal(t, "PAY-2025-03-emp-1", entry.Reference)
	assert.Equal(t, journal.OperationTypePaymentVoucher, entry.OperationType)
}

func TestPayrollService_MarkPaid_CounterpartyOverridesDebit(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	counterparty := "Payables - Ana"
	paid, err := f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{
		ID:                  processed.Record.ID,
		PaymentDate:         "2025-04-01",
		PaymentMethod:       "check",
		CounterpartyAccount: &counterparty,
	})
	require.NoError(t, err)
	require.NotNil(t, paid.CounterpartyAccount)

	entries, err := f.journal.ListBySource(ctx, processed.Record.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Payables - Ana", entries[0].DebitAccount)
	assert.Equal(t, "Bank - Checks", entries[0].CreditAccount)
}

func TestPayrollService_MarkPaid_PostingFailureKeepsPending(t *testing.T) {
	f := newPayrollFixture(failingPoster{})
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	_, err = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: processed.Record.ID, PaymentDate: "2025-04-01", PaymentMethod: "bank"})
	require.Error(t, err)

	stored, err := f.payroll.Get(ctx, processed.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusPending), stored.Status)
	assert.Nil(t, stored.JournalEntryID)
	assert.Nil(t, stored.PaymentDate)
}

func TestPayrollService_MarkPaid_Cancelled(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	_, err = f.payroll.Cancel(ctx, processed.Record.ID)
	require.NoError(t, err)

	_, err = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: processed.Record.ID, PaymentDate: "2025-04-01", PaymentMethod: "bank"})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordCancelled)
}

func TestPayrollService_MarkPaid_NotFound(t *testing.T) {
	f := newPayrollFixture(nil)

	_, err := f.payroll.MarkPaid(context.Background(), payroll.MarkPaidRequest{ID: "missing", PaymentDate: "2025-04-01", PaymentMethod: "bank"})

	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollService_Delete_PaidRejected(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)
	_, err = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: processed.Record.ID, PaymentDate: "2025-04-01", PaymentMethod: "bank"})
	require.NoError(t, err)

	err = f.payroll.Delete(ctx, processed.Record.ID)
	assert.ErrorIs(t, err, payroll.ErrCannotDeletePaidRecord)
}

func TestPayrollService_Delete_PendingAllowsReprocess(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	first, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	require.NoError(t, f.payroll.Delete(ctx, first.Record.ID))

	_, err = f.payroll.Get(ctx, first.Record.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)

	again, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)
	assert.True(t, again.Created)
	assert.NotEqual(t, first.Record.ID, again.Record.ID)
}

func TestPayrollService_ProcessMonthlyBatch_UsesAttendance(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()

	// Two present days of 10h and one absence in March.
	for _, day := range []string{"2025-03-03", "2025-03-04"} {
		_, err := f.attendance.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", EmployeeName: "Ana", Date: day, Time: "08:00"})
		require.NoError(t, err)
		_, err = f.attendance.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", Date: day, Time: "18:00"})
		require.NoError(t, err)
	}
	_, err := f.attendance.MarkAbsent(ctx, attendance.MarkStatusRequest{EmployeeID: "emp-1", EmployeeName: "Ana", Date: "2025-03-05"})
	require.NoError(t, err)

	result, err := f.payroll.ProcessMonthlyBatch(ctx, payroll.BatchPayrollRequest{
		Employees: []payroll.BatchEmployee{
			{EmployeeID: "emp-1", EmployeeName: "Ana", BasicSalary: decimal.NewFromInt(5000)},
			{EmployeeID: "emp-2", EmployeeName: "Ben"},
		},
		Year:                2025,
		Month:               3,
		OvertimeRate:        decimal.NewFromInt(20),
		AbsentDeductionRate: decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	require.Len(t, result.Processed, 1)
	rec := result.Processed[0]
	assert.True(t, decimal.NewFromInt(4).Equal(rec.OvertimeHours), "overtime = %s", rec.OvertimeHours)
	assert.Equal(t, 1, rec.AbsentDays)
	// 5000 + 4*20 - 1*100
	assert.True(t, decimal.NewFromInt(4980).Equal(rec.NetSalary), "net = %s", rec.NetSalary)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "emp-2", result.Skipped[0].EmployeeID)
	assert.Equal(t, payroll.ErrEmployeeHasNoBaseSalary.Error(), result.Skipped[0].Reason)
}

func TestPayrollService_ProcessMonthlyBatch_SkipsAlreadyProcessed(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	require.NoError(t, f.employees.Seed(ctx, []employee.Employee{
		{ID: "emp-1", Name: "Ana", BaseSalary: decimal.NewFromInt(8000), Status: employee.EmploymentStatusActive},
		{ID: "emp-2", Name: "Ben", BaseSalary: decimal.NewFromInt(6000), Status: employee.EmploymentStatusActive},
		{ID: "emp-3", Name: "Cy", BaseSalary: decimal.NewFromInt(7000), Status: employee.EmploymentStatusResigned},
	}))

	existing, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	result, err := f.payroll.ProcessMonthlyBatch(ctx, payroll.BatchPayrollRequest{Year: 2025, Month: 3})

	require.NoError(t, err)
	require.Len(t, result.Processed, 1)
	assert.Equal(t, "emp-2", result.Processed[0].EmployeeID)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "emp-1", result.Skipped[0].EmployeeID)
	assert.Equal(t, existing.Record.ID, result.Skipped[0].PayrollID)
}

func TestPayrollService_ProcessMonthlyBatch_NegativeAmountWritesNothing(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()

	_, err := f.payroll.ProcessMonthlyBatch(ctx, payroll.BatchPayrollRequest{
		Employees: []payroll.BatchEmployee{
			{EmployeeID: "a", EmployeeName: "Ana", BasicSalary: decimal.NewFromInt(5000)},
			{EmployeeID: "b", EmployeeName: "Ben", BasicSalary: decimal.NewFromInt(5000)},
		},
		Year:       2025,
		Month:      3,
		Allowances: map[string]decimal.Decimal{"a": decimal.NewFromInt(10)},
		Deductions: map[string]decimal.Decimal{"b": decimal.NewFromInt(-5)},
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "must be at least 0", verrs.ToMap()["deductions[b]"])

	for _, id := range []string{"a", "b"} {
		records, err := f.payroll.ByEmployee(ctx, payroll.EmployeePayrollRequest{EmployeeID: id})
		require.NoError(t, err)
		assert.Empty(t, records, "employee %s", id)
	}
}

func TestPayrollService_Process_ConcurrentCreatesOneRecord(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()

	const workers = 20
	results := make([]payroll.ProcessPayrollResponse, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			results[i], errs[i] = f.payroll.Process(ctx, processRequest())
		})
	}
	wg.Wait()

	created := 0
	for i := range workers {
		require.NoError(t, errs[i])
		if results[i].Created {
			created++
		}
		assert.Equal(t, results[0].Record.ID, results[i].Record.ID)
	}
	assert.Equal(t, 1, created)

	records, err := f.payroll.ByEmployee(ctx, payroll.EmployeePayrollRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPayrollService_MarkPaid_ConcurrentPostsOnce(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	processed, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)
	id := processed.Record.ID

	const workers = 20
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			_, errs[i] = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: id, PaymentDate: "2025-04-01", PaymentMethod: "bank"})
		})
	}
	wg.Wait()

	paid := 0
	for _, err := range errs {
		if err == nil {
			paid++
			continue
		}
		assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)
	}
	assert.Equal(t, 1, paid)

	entries, err := f.journal.ListBySource(ctx, id)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPayrollService_Summary_ExcludesCancelledTotals(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()

	first, err := f.payroll.Process(ctx, processRequest())
	require.NoError(t, err)

	second := processRequest()
	second.EmployeeID = "emp-2"
	second.EmployeeName = "Ben"
	second.AbsentDays = 0
	cancelled, err := f.payroll.Process(ctx, second)
	require.NoError(t, err)
	_, err = f.payroll.Cancel(ctx, cancelled.Record.ID)
	require.NoError(t, err)

	_, err = f.payroll.MarkPaid(ctx, payroll.MarkPaidRequest{ID: first.Record.ID, PaymentDate: "2025-04-01", PaymentMethod: "cash"})
	require.NoError(t, err)

	summary, err := f.payroll.Summary(ctx, payroll.SummaryRequest{Year: 2025, Month: 3})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEmployees)
	assert.True(t, decimal.NewFromInt(8300).Equal(summary.TotalNetSalary))
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, 1, summary.CancelledCount)
	assert.Zero(t, summary.PendingCount)
}

func TestPayrollService_ByEmployee_Range(t *testing.T) {
	f := newPayrollFixture(nil)
	ctx := context.Background()
	for _, month := range []int{1, 2, 3} {
		req := processRequest()
		req.Month = month
		_, err := f.payroll.Process(ctx, req)
		require.NoError(t, err)
	}

	start, end := "2025-02", "2025-03"
	records, err := f.payroll.ByEmployee(ctx, payroll.EmployeePayrollRequest{EmployeeID: "emp-1", Start: &start, End: &end})

	require.NoError(t, err)
	assert.Len(t, records, 2)
}
