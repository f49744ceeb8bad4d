package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

type employeeDirectory struct {
	store *Store
}

func NewEmployeeDirectory(store *Store) employee.DirectoryStore {
	return &employeeDirectory{store: store}
}

// GetByID implements employee.Directory.
func (d *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var found employee.Employee
	err := d.store.read(ctx, func(t *tables) error {
		e, ok := t.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		found = e
		return nil
	})
	return found, err
}

// ListActive implements employee.Directory.
func (d *employeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	err := d.store.read(ctx, func(t *tables) error {
		for _, e := range t.employees {
			if e.IsActive() {
				out = append(out, e)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b employee.Employee) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

// Seed implements employee.DirectoryStore. It replaces the directory contents.
func (d *employeeDirectory) Seed(ctx context.Context, employees []employee.Employee) error {
	return d.store.write(ctx, func(t *tables) error {
		t.employees = make(map[string]employee.Employee, len(employees))
		for _, e := range employees {
			t.employees[e.ID] = e
		}
		return nil
	})
}
