package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shiftColumns = `id, code, name, type, start_time, end_time, duration_hours::float8, max_employees,
	location, color, notes, created_at, updated_at`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Code, &s.Name, &s.Type, &s.StartTime, &s.EndTime, &s.DurationHours, &s.MaxEmployees,
		&s.Location, &s.Color, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (code, name, type, start_time, end_time, duration_hours, max_employees, location, color, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query,
		s.Code, s.Name, s.Type, s.StartTime, s.EndTime, s.DurationHours, s.MaxEmployees,
		s.Location, s.Color, s.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return shift.Shift{}, shift.ErrShiftCodeExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id::text = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET code = $2, name = $3, type = $4, start_time = $5, end_time = $6, duration_hours = $7,
			max_employees = $8, location = $9, color = $10, notes = $11, updated_at = NOW()
		WHERE id::text = $1
		RETURNING ` + shiftColumns

	updated, err := scanShift(q.QueryRow(ctx, query,
		s.ID, s.Code, s.Name, s.Type, s.StartTime, s.EndTime, s.DurationHours,
		s.MaxEmployees, s.Location, s.Color, s.Notes,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return shift.Shift{}, shift.ErrShiftNotFound
		case isUniqueViolation(err):
			return shift.Shift{}, shift.ErrShiftCodeExists
		}
		return shift.Shift{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return updated, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

const assignmentColumns = `id, shift_id, employee, role, date, status, created_at, updated_at`

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

func scanAssignment(row pgx.Row) (shift.Assignment, error) {
	var a shift.Assignment
	err := row.Scan(&a.ID, &a.ShiftID, &a.Employee, &a.Role, &a.Date, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) Create(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (shift_id, employee, role, date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + assignmentColumns

	created, err := scanAssignment(q.QueryRow(ctx, query, a.ShiftID, a.Employee, a.Role, a.Date, a.Status))
	if err != nil {
		return shift.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}
	return created, nil
}

// GetByID implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM shift_assignments WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Assignment{}, shift.ErrAssignmentNotFound
		}
		return shift.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// List implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) List(ctx context.Context, filter shift.AssignmentFilter) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE ($1 = '' OR shift_id::text = $1)
		  AND ($2::date IS NULL OR date = $2::date)
		ORDER BY date, employee, created_at
	`

	rows, err := q.Query(ctx, query, filter.ShiftID, filter.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]shift.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CountActive implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) CountActive(ctx context.Context, shiftID string, date *time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM shift_assignments
		WHERE shift_id::text = $1
		  AND status <> 'cancelled'
		  AND ($2::date IS NULL OR date = $2::date)
	`

	var count int
	if err := q.QueryRow(ctx, query, shiftID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

// UpdateStatus implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status shift.AssignmentStatus) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments SET status = $2, updated_at = NOW()
		WHERE id::text = $1
		RETURNING ` + assignmentColumns

	a, err := scanAssignment(q.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Assignment{}, shift.ErrAssignmentNotFound
		}
		return shift.Assignment{}, fmt.Errorf("failed to update assignment: %w", err)
	}
	return a, nil
}

// Delete implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

// DeleteByShiftID implements shift.AssignmentRepository.
func (r *assignmentRepositoryImpl) DeleteByShiftID(ctx context.Context, shiftID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE shift_id::text = $1`, shiftID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shift assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}
