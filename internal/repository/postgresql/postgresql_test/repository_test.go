package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestAttendanceRepository_UpsertKeepsOneRowPerDay(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	in := "08:00"
	first, err := repo.Upsert(ctx, attendance.Record{
		EmployeeID: "E1", EmployeeName: "Ana", Date: day("2025-03-03"), CheckIn: &in, Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	out := "17:00"
	hours := 9.0
	second, err := repo.Upsert(ctx, attendance.Record{
		EmployeeID: "E1", EmployeeName: "Ana", Date: day("2025-03-03"),
		CheckIn: &in, CheckOut: &out, WorkedHours: &hours, Status: attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.WorkedHours)
	assert.InDelta(t, 9.0, *second.WorkedHours, 0.001)

	records, err := repo.ListByEmployee(ctx, "E1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = repo.GetByEmployeeAndDate(ctx, "E1", day("2025-03-04"))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestPayrollRepository_CreateIfAbsentIsIdempotent(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()

	record := payroll.PayrollRecord{
		EmployeeID: "E1", EmployeeName: "Ana", PeriodYear: 2025, PeriodMonth: 1,
		BaseSalary: decimal.NewFromInt(5000), NetSalary: decimal.NewFromInt(5000),
		Status: payroll.PayrollStatusPending,
	}

	first, created, err := repo.CreateIfAbsent(ctx, record)
	require.NoError(t, err)
	assert.True(t, created)

	record.BaseSalary = decimal.NewFromInt(9999)
	second, created, err := repo.CreateIfAbsent(ctx, record)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.BaseSalary.Equal(decimal.NewFromInt(5000)))
}

func TestJournalRepository_SourceReferenceIsUnique(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewJournalRepository(setup.DB)
	ctx := context.Background()

	entry := journal.Entry{
		Date: day("2025-02-01"), Description: "Salary payment", DebitAccount: "Salaries - Ana",
		CreditAccount: "Cash", Amount: decimal.NewFromInt(5000), Reference: "PAY-2025-01-E1",
		Status: journal.StatusApproved, Type: journal.TypeAutomatic,
		OperationType: journal.OperationTypePaymentVoucher, SourceReference: "payroll-1",
	}

	_, err := repo.Create(ctx, entry)
	require.NoError(t, err)

	_, err = repo.Create(ctx, entry)
	assert.ErrorIs(t, err, journal.ErrSourceReferenceExists)

	pending, err := repo.ListUndelivered(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	tx := postgresql.NewTransactor(setup.DB)
	shifts := postgresql.NewShiftRepository(setup.DB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := tx.Lock(ctx, "shift:test"); err != nil {
			return err
		}
		_, err := shifts.Create(ctx, shift.Shift{
			Code: "SHF-ROLL", Name: "Morning", Type: shift.ShiftTypeMorning,
			StartTime: "08:00", EndTime: "16:00", DurationHours: 8, MaxEmployees: 2,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := shifts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
