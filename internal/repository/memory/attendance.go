package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	var found attendance.Record
	err := r.store.read(ctx, func(t *tables) error {
		rec, ok := t.attendance[attendanceKey{employeeID, dateKey(date)}]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		found = rec
		return nil
	})
	return found, err
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	err := r.store.write(ctx, func(t *tables) error {
		key := attendanceKey{rec.EmployeeID, dateKey(rec.Date)}
		now := r.store.now().UTC()
		if existing, ok := t.attendance[key]; ok {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
		} else {
			rec.ID = newID()
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		t.attendance[key] = rec
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	err := r.store.read(ctx, func(t *tables) error {
		for key, rec := range t.attendance {
			if key.employeeID != employeeID {
				continue
			}
			if start != nil && key.date < dateKey(*start) {
				continue
			}
			if end != nil && key.date > dateKey(*end) {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b attendance.Record) int {
		return b.Date.Compare(a.Date)
	})
	return out, err
}

// ListByDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	from, to := dateKey(start), dateKey(end)
	var out []attendance.Record
	err := r.store.read(ctx, func(t *tables) error {
		for key, rec := range t.attendance {
			if key.date >= from && key.date <= to {
				out = append(out, rec)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b attendance.Record) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(a.EmployeeName, b.EmployeeName))
	})
	return out, err
}

// ListEmployeeIDsOnDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListEmployeeIDsOnDate(ctx context.Context, date time.Time) ([]string, error) {
	day := dateKey(date)
	var ids []string
	err := r.store.read(ctx, func(t *tables) error {
		for key := range t.attendance {
			if key.date == day {
				ids = append(ids, key.employeeID)
			}
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}
