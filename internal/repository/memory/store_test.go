package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusAbsent}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByEmployeeAndDate(ctx, "emp-1", testDay)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestStore_WithinTx_RollsBackOnPanic(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusAbsent})
			panic("unexpected")
		})
	})

	_, err := repo.GetByEmployeeAndDate(ctx, "emp-1", testDay)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestStore_WithinTx_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		inner := store.WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusAbsent})
			return err
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByEmployeeAndDate(ctx, "emp-1", testDay)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_Upsert_OneRowPerDay(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusAbsent})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusOnLeave})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	records, err := repo.ListByEmployee(ctx, "emp-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusOnLeave, records[0].Status)
}

func TestPayrollRepository_CreateIfAbsent(t *testing.T) {
	store := NewStore()
	repo := NewPayrollRepository(store)
	ctx := context.Background()
	rec := payroll.PayrollRecord{
		EmployeeID:  "emp-1",
		PeriodYear:  2025,
		PeriodMonth: 3,
		BaseSalary:  decimal.NewFromInt(8000),
		NetSalary:   decimal.NewFromInt(8000),
		Status:      payroll.PayrollStatusPending,
	}

	first, created, err := repo.CreateIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)

	rec.BaseSalary = decimal.NewFromInt(1)
	second, created, err := repo.CreateIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.NewFromInt(8000).Equal(second.BaseSalary))
}

func TestAssignmentRepository_CountActive_IgnoresCancelled(t *testing.T) {
	store := NewStore()
	shifts := NewShiftRepository(store)
	assignments := NewAssignmentRepository(store)
	ctx := context.Background()

	sh, err := shifts.Create(ctx, shift.Shift{Code: "MOR", Name: "Morning", Type: shift.ShiftTypeMorning, StartTime: "08:00", EndTime: "16:00", DurationHours: 8, MaxEmployees: 2})
	require.NoError(t, err)

	for _, status := range []shift.AssignmentStatus{shift.AssignmentStatusConfirmed, shift.AssignmentStatusPending, shift.AssignmentStatusCancelled} {
		_, err := assignments.Create(ctx, shift.Assignment{ShiftID: sh.ID, Employee: "emp", Date: testDay, Status: status})
		require.NoError(t, err)
	}
	_, err = assignments.Create(ctx, shift.Assignment{ShiftID: sh.ID, Employee: "emp", Date: testDay.AddDate(0, 0, 1), Status: shift.AssignmentStatusConfirmed})
	require.NoError(t, err)

	onDay, err := assignments.CountActive(ctx, sh.ID, &testDay)
	require.NoError(t, err)
	assert.Equal(t, 2, onDay)

	total, err := assignments.CountActive(ctx, sh.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestStore_ReadOutsideTx_SeesOnlyCommitted(t *testing.T) {
	store := NewStore()
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	written := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "emp-1", Date: testDay, Status: attendance.StatusAbsent}); err != nil {
				return err
			}
			close(written)
			<-release
			return boom
		})
	}()
	<-written

	readDone := make(chan error, 1)
	go func() {
		_, err := repo.GetByEmployeeAndDate(ctx, "emp-1", testDay)
		readDone <- err
	}()

	select {
	case err := <-readDone:
		t.Fatalf("read finished while the unit of work was open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.ErrorIs(t, <-txDone, boom)
	assert.ErrorIs(t, <-readDone, attendance.ErrAttendanceNotFound)
}
