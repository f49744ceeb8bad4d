package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
	Update(ctx context.Context, shift Shift) (Shift, error)
	Delete(ctx context.Context, id string) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment Assignment) (Assignment, error)
	GetByID(ctx context.Context, id string) (Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)

	// CountActive counts non-cancelled assignments of a shift, on one date when
	// date is non-nil and across all dates otherwise.
	CountActive(ctx context.Context, shiftID string, date *time.Time) (int, error)

	UpdateStatus(ctx context.Context, id string, status AssignmentStatus) (Assignment, error)
	Delete(ctx context.Context, id string) error

	// DeleteByShiftID removes every assignment of a shift and returns how many
	// rows went away.
	DeleteByShiftID(ctx context.Context, shiftID string) (int64, error)
}
