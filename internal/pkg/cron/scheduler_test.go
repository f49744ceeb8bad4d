package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce_JoinsFailures(t *testing.T) {
	s := NewScheduler(context.Background())
	var ran []string
	s.AddJob("ok", time.Hour, func(context.Context) error {
		ran = append(ran, "ok")
		return nil
	})
	s.AddJob("fails", time.Hour, func(context.Context) error {
		ran = append(ran, "fails")
		return errors.New("boom")
	})
	s.AddJob("panics", time.Hour, func(context.Context) error {
		ran = append(ran, "panics")
		panic("bad job")
	})

	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fails: boom")
	assert.Contains(t, err.Error(), "panics: panic: bad job")
	assert.Equal(t, []string{"ok", "fails", "panics"}, ran)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	s.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

type stubDirectory struct {
	employees []employee.Employee
}

func (d stubDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range d.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (d stubDirectory) ListActive(context.Context) ([]employee.Employee, error) {
	return d.employees, nil
}

type stubMarker struct {
	dates []time.Time
}

func (m *stubMarker) MarkMissingAbsent(_ context.Context, date time.Time, employees []employee.Employee) (int, error) {
	m.dates = append(m.dates, date)
	return len(employees), nil
}

func TestAttendanceJobs_MarkAbsentEmployees_OncePerDay(t *testing.T) {
	marker := &stubMarker{}
	dir := stubDirectory{employees: []employee.Employee{{ID: "emp-1", Name: "Ana", Status: employee.EmploymentStatusActive}}}
	jobs := NewAttendanceJobs(marker, dir, 2)
	ctx := context.Background()

	now := time.Date(2025, 3, 4, 1, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return now }

	// Before the cutoff hour.
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	assert.Empty(t, marker.dates)

	now = time.Date(2025, 3, 4, 3, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	now = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))

	require.Len(t, marker.dates, 1)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), marker.dates[0])

	now = time.Date(2025, 3, 5, 2, 0, 0, 0, time.UTC)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	require.Len(t, marker.dates, 2)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), marker.dates[1])
}

func TestAttendanceJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler(context.Background())
	NewAttendanceJobs(&stubMarker{}, stubDirectory{}, 0).RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "mark_absent_employees", s.jobs[0].Name)
}
