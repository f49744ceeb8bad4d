package employee

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

type seedRow struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Salary decimal.Decimal `json:"salary"`
	Status string          `json:"status"`
}

// LoadSeedFile reads a JSON array of {id, name, salary, status}. A missing
// status means active.
func LoadSeedFile(path string) ([]Employee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read employee seed: %w", err)
	}

	var rows []seedRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse employee seed: %w", err)
	}

	employees := make([]Employee, 0, len(rows))
	for i, row := range rows {
		if row.ID == "" || row.Name == "" {
			return nil, fmt.Errorf("employee seed row %d: id and name are required", i)
		}
		status := EmploymentStatus(row.Status)
		switch status {
		case "":
			status = EmploymentStatusActive
		case EmploymentStatusActive, EmploymentStatusResigned, EmploymentStatusTerminated:
		default:
			return nil, fmt.Errorf("employee seed row %d: unknown status %q", i, row.Status)
		}
		employees = append(employees, Employee{
			ID:         row.ID,
			Name:       row.Name,
			BaseSalary: row.Salary,
			Status:     status,
		})
	}
	return employees, nil
}
