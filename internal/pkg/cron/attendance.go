package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

// AbsenceMarker writes absent rows for employees with no record on a date.
type AbsenceMarker interface {
	MarkMissingAbsent(ctx context.Context, date time.Time, employees []employee.Employee) (int, error)
}

type AttendanceJobs struct {
	marker     AbsenceMarker
	directory  employee.Directory
	cutoffHour int
	now        func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func NewAttendanceJobs(marker AbsenceMarker, directory employee.Directory, cutoffHour int) *AttendanceJobs {
	return &AttendanceJobs{
		marker:     marker,
		directory:  directory,
		cutoffHour: cutoffHour,
		now:        time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees marks yesterday's missing active employees absent. It
// runs at most once per UTC day, at or after the cutoff hour.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now().UTC()
	if now.Hour() < j.cutoffHour {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.lastRun.Before(today) {
		return nil
	}

	yesterday := today.AddDate(0, 0, -1)
	slog.Info("Cron: Starting mark absent employees job", "date", yesterday.Format("2006-01-02"))

	employees, err := j.directory.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	marked, err := j.marker.MarkMissingAbsent(ctx, yesterday, employees)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	j.lastRun = today
	slog.Info("Cron: Mark absent employees completed", "date", yesterday.Format("2006-01-02"), "marked", marked)
	return nil
}
