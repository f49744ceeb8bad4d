package shift

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShiftService() shift.ShiftService {
	store := memory.NewStore()
	return NewShiftService(store, memory.NewShiftRepository(store), memory.NewAssignmentRepository(store), time.Second)
}

func createTestShift(t *testing.T, svc shift.ShiftService, capacity int) shift.ShiftResponse {
	t.Helper()
	created, err := svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:         "Morning Desk",
		Type:         "morning",
		StartTime:    "08:00",
		EndTime:      "16:00",
		MaxEmployees: capacity,
	})
	require.NoError(t, err)
	return created
}

func TestShiftService_CreateShift_Success(t *testing.T) {
	svc := newTestShiftService()

	created := createTestShift(t, svc, 10)

	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.Code, "SHF-")
	assert.Equal(t, 8.0, created.DurationHours)
	assert.Equal(t, 10, created.MaxEmployees)
}

func TestShiftService_CreateShift_OvernightDuration(t *testing.T) {
	svc := newTestShiftService()

	created, err := svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:          "Night Watch",
		Type:          "night",
		StartTime:     "22:00",
		EndTime:       "06:00",
		DurationHours: 8,
		MaxEmployees:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, 8.0, created.DurationHours)
}

func TestShiftService_CreateShift_DurationMismatch(t *testing.T) {
	svc := newTestShiftService()

	_, err := svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:          "Broken",
		Type:          "custom",
		StartTime:     "08:00",
		EndTime:       "12:00",
		DurationHours: 6,
		MaxEmployees:  1,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "duration_hours")
}

func TestShiftService_CreateShift_InvalidFields(t *testing.T) {
	svc := newTestShiftService()

	_, err := svc.CreateShift(context.Background(), shift.CreateShiftRequest{
		Name:         "   ",
		Type:         "weekend",
		StartTime:    "25:00",
		EndTime:      "16:00",
		MaxEmployees: 0,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "max_employees")
}

func TestShiftService_CreateShift_DuplicateCode(t *testing.T) {
	svc := newTestShiftService()
	req := shift.CreateShiftRequest{
		Code:         "MOR-1",
		Name:         "Morning",
		Type:         "morning",
		StartTime:    "07:00",
		EndTime:      "15:00",
		MaxEmployees: 5,
	}

	_, err := svc.CreateShift(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateShift(context.Background(), req)
	assert.ErrorIs(t, err, shift.ErrShiftCodeExists)
}

func TestShiftService_UpdateShift_RecomputesDuration(t *testing.T) {
	svc := newTestShiftService()
	created := createTestShift(t, svc, 4)

	end := "18:30"
	updated, err := svc.UpdateShift(context.Background(), shift.UpdateShiftRequest{ID: created.ID, EndTime: &end})

	require.NoError(t, err)
	assert.Equal(t, "18:30", updated.EndTime)
	assert.Equal(t, 10.5, updated.DurationHours)
}

func TestShiftService_UpdateShift_NotFound(t *testing.T) {
	svc := newTestShiftService()

	name := "x"
	_, err := svc.UpdateShift(context.Background(), shift.UpdateShiftRequest{ID: "missing", Name: &name})

	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestShiftService_AssignEmployee_CapacityExceededStillCreates(t *testing.T) {
	svc := newTestShiftService()
	ctx := context.Background()
	created := createTestShift(t, svc, 1)

	first, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: "Ana", Date: "2025-03-03"})
	require.NoError(t, err)
	assert.False(t, first.CapacityExceeded)
	assert.Equal(t, 1, first.AssignedCount)

	second, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: "Ben", Date: "2025-03-03"})
	require.NoError(t, err)
	assert.True(t, second.CapacityExceeded)
	assert.Equal(t, 2, second.AssignedCount)
	assert.NotEmpty(t, second.Assignment.ID)

	date := "2025-03-03"
	list, err := svc.ListAssignments(ctx, shift.ListAssignmentsRequest{ShiftID: created.ID, Date: &date})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestShiftService_AssignEmployee_CancelledDoesNotCount(t *testing.T) {
	svc := newTestShiftService()
	ctx := context.Background()
	created := createTestShift(t, svc, 1)

	_, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: "Ana", Date: "2025-03-03", Status: "cancelled"})
	require.NoError(t, err)

	result, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: "Ben", Date: "2025-03-03"})
	require.NoError(t, err)
	assert.False(t, result.CapacityExceeded)
}

func TestShiftService_AssignEmployee_UnknownShift(t *testing.T) {
	svc := newTestShiftService()

	_, err := svc.AssignEmployee(context.Background(), shift.AssignEmployeeRequest{ShiftID: "missing", Employee: "Ana", Date: "2025-03-03"})

	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestShiftService_Coverage_Percent(t *testing.T) {
	tests := []struct {
		name     string
		assigned int
		want     float64
	}{
		{"partial", 7, 70},
		{"over capacity clamps", 12, 100},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestShiftService()
			ctx := context.Background()
			created := createTestShift(t, svc, 10)
			for i := 0; i < tt.assigned; i++ {
				_, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: "emp", Date: "2025-03-03"})
				require.NoError(t, err)
			}

			date := "2025-03-03"
			cov, err := svc.Coverage(ctx, shift.CoverageRequest{ShiftID: created.ID, Date: &date})

			require.NoError(t, err)
			assert.Equal(t, tt.assigned, cov.Assigned)
			assert.Equal(t, 10, cov.Capacity)
			assert.Equal(t, tt.want, cov.Percent)
		})
	}
}

func TestShiftService_CoverageSummary_AllShifts(t *testing.T) {
	svc := newTestShiftService()
	ctx := context.Background()
	a := createTestShift(t, svc, 4)
	createTestShift(t, svc, 2)

	_, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: a.ID, Employee: "Ana", Date: "2025-03-03"})
	require.NoError(t, err)

	summary, err := svc.CoverageSummary(ctx, nil)

	require.NoError(t, err)
	require.Len(t, summary, 2)
	byID := map[string]shift.CoverageResponse{}
	for _, c := range summary {
		byID[c.ShiftID] = c
	}
	assert.Equal(t, 25.0, byID[a.ID].Percent)
}

func TestShiftService_DeleteShift_RemovesAssignments(t *testing.T) {
	svc := newTestShiftService()
	ctx := context.Background()
	created := createTestShift(t, svc, 5)
	for _, name := range []string{"Ana", "Ben"} {
		_, err := svc.AssignEmployee(ctx, shift.AssignEmployeeRequest{ShiftID: created.ID, Employee: name, Date: "2025-03-03"})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteShift(ctx, created.ID))

	_, err := svc.GetShift(ctx, created.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	remaining, err := svc.ListAssignments(ctx, shift.ListAssignmentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestShiftService_UpdateAssignmentStatus_NotFound(t *testing.T) {
	svc := newTestShiftService()

	_, err := svc.UpdateAssignmentStatus(context.Background(), shift.UpdateAssignmentStatusRequest{ID: "missing", Status: "pending"})

	assert.ErrorIs(t, err, shift.ErrAssignmentNotFound)
}
