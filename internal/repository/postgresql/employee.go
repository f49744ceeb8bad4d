package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeDirectory reads the employees table. Rows are maintained by the
// owning HR system or by the seed loader.
type employeeDirectory struct {
	db *database.DB
}

func NewEmployeeDirectory(db *database.DB) employee.DirectoryStore {
	return &employeeDirectory{db: db}
}

// GetByID implements employee.Directory.
func (e *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	var emp employee.Employee
	err := q.QueryRow(ctx, `SELECT id, name, base_salary, status FROM employees WHERE id = $1`, id).
		Scan(&emp.ID, &emp.Name, &emp.BaseSalary, &emp.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// ListActive implements employee.Directory.
func (e *employeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, base_salary, status
		FROM employees
		WHERE status = 'active'
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.BaseSalary, &emp.Status); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Seed implements employee.DirectoryStore by upserting every row.
func (e *employeeDirectory) Seed(ctx context.Context, employees []employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	batch := &pgx.Batch{}
	for _, emp := range employees {
		batch.Queue(`
			INSERT INTO employees (id, name, base_salary, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				base_salary = EXCLUDED.base_salary,
				status = EXCLUDED.status
		`, emp.ID, emp.Name, emp.BaseSalary, emp.Status)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range employees {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to seed employee: %w", err)
		}
	}
	return nil
}
