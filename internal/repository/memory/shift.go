package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
)

type shiftRepository struct {
	store *Store
}

func NewShiftRepository(store *Store) shift.ShiftRepository {
	return &shiftRepository{store: store}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	err := r.store.write(ctx, func(t *tables) error {
		for _, existing := range t.shifts {
			if existing.Code == sh.Code {
				return shift.ErrShiftCodeExists
			}
		}
		now := r.store.now().UTC()
		sh.ID = newID()
		sh.CreatedAt = now
		sh.UpdatedAt = now
		t.shifts[sh.ID] = sh
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}
	return sh, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	var found shift.Shift
	err := r.store.read(ctx, func(t *tables) error {
		sh, ok := t.shifts[id]
		if !ok {
			return shift.ErrShiftNotFound
		}
		found = sh
		return nil
	})
	return found, err
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	var shifts []shift.Shift
	err := r.store.read(ctx, func(t *tables) error {
		shifts = slices.Collect(maps.Values(t.shifts))
		return nil
	})
	slices.SortFunc(shifts, func(a, b shift.Shift) int {
		return cmp.Or(cmp.Compare(a.StartTime, b.StartTime), cmp.Compare(a.Name, b.Name))
	})
	return shifts, err
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	err := r.store.write(ctx, func(t *tables) error {
		current, ok := t.shifts[sh.ID]
		if !ok {
			return shift.ErrShiftNotFound
		}
		for id, existing := range t.shifts {
			if id != sh.ID && existing.Code == sh.Code {
				return shift.ErrShiftCodeExists
			}
		}
		sh.CreatedAt = current.CreatedAt
		sh.UpdatedAt = r.store.now().UTC()
		t.shifts[sh.ID] = sh
		return nil
	})
	if err != nil {
		return shift.Shift{}, err
	}
	return sh, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, ok := t.shifts[id]; !ok {
			return shift.ErrShiftNotFound
		}
		delete(t.shifts, id)
		return nil
	})
}

type assignmentRepository struct {
	store *Store
}

func NewAssignmentRepository(store *Store) shift.AssignmentRepository {
	return &assignmentRepository{store: store}
}

// Create implements shift.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	err := r.store.write(ctx, func(t *tables) error {
		if _, ok := t.shifts[a.ShiftID]; !ok {
			return shift.ErrShiftNotFound
		}
		now := r.store.now().UTC()
		a.ID = newID()
		a.CreatedAt = now
		a.UpdatedAt = now
		t.assignments[a.ID] = a
		return nil
	})
	if err != nil {
		return shift.Assignment{}, err
	}
	return a, nil
}

// GetByID implements shift.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string) (shift.Assignment, error) {
	var found shift.Assignment
	err := r.store.read(ctx, func(t *tables) error {
		a, ok := t.assignments[id]
		if !ok {
			return shift.ErrAssignmentNotFound
		}
		found = a
		return nil
	})
	return found, err
}

// List implements shift.AssignmentRepository.
func (r *assignmentRepository) List(ctx context.Context, filter shift.AssignmentFilter) ([]shift.Assignment, error) {
	var out []shift.Assignment
	err := r.store.read(ctx, func(t *tables) error {
		for _, a := range t.assignments {
			if matchAssignment(a, filter.ShiftID, filter.Date) {
				out = append(out, a)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b shift.Assignment) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.Employee, b.Employee), a.CreatedAt.Compare(b.CreatedAt))
	})
	return out, err
}

// CountActive implements shift.AssignmentRepository.
func (r *assignmentRepository) CountActive(ctx context.Context, shiftID string, date *time.Time) (int, error) {
	count := 0
	err := r.store.read(ctx, func(t *tables) error {
		for _, a := range t.assignments {
			if a.Status != shift.AssignmentStatusCancelled && matchAssignment(a, shiftID, date) {
				count++
			}
		}
		return nil
	})
	return count, err
}

// UpdateStatus implements shift.AssignmentRepository.
func (r *assignmentRepository) UpdateStatus(ctx context.Context, id string, status shift.AssignmentStatus) (shift.Assignment, error) {
	var updated shift.Assignment
	err := r.store.write(ctx, func(t *tables) error {
		a, ok := t.assignments[id]
		if !ok {
			return shift.ErrAssignmentNotFound
		}
		a.Status = status
		a.UpdatedAt = r.store.now().UTC()
		t.assignments[id] = a
		updated = a
		return nil
	})
	return updated, err
}

// Delete implements shift.AssignmentRepository.
func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(t *tables) error {
		if _, ok := t.assignments[id]; !ok {
			return shift.ErrAssignmentNotFound
		}
		delete(t.assignments, id)
		return nil
	})
}

// DeleteByShiftID implements shift.AssignmentRepository.
func (r *assignmentRepository) DeleteByShiftID(ctx context.Context, shiftID string) (int64, error) {
	var removed int64
	err := r.store.write(ctx, func(t *tables) error {
		for id, a := range t.assignments {
			if a.ShiftID == shiftID {
				delete(t.assignments, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

func matchAssignment(a shift.Assignment, shiftID string, date *time.Time) bool {
	if shiftID != "" && a.ShiftID != shiftID {
		return false
	}
	if date != nil && dateKey(a.Date) != dateKey(*date) {
		return false
	}
	return true
}
