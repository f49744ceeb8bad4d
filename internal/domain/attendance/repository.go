package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores one Record per (employee, date).
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// Upsert inserts the record or replaces the one stored under the same
	// (employee, date), keeping its id and created_at.
	Upsert(ctx context.Context, record Record) (Record, error)

	// ListByEmployee returns records in the inclusive range, newest first.
	// Nil bounds are open.
	ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]Record, error)

	// ListByDateRange returns records ordered by date desc, then employee name.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Record, error)

	// ListEmployeeIDsOnDate returns the employees that have any record on date.
	ListEmployeeIDsOnDate(ctx context.Context, date time.Time) ([]string, error)
}
