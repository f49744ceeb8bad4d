package employee

import (
	"github.com/shopspring/decimal"
)

// Employee is the directory view the workforce engine consumes.
// The directory itself is owned by another system; this engine never writes it.
type Employee struct {
	ID         string
	Name       string
	BaseSalary decimal.Decimal
	Status     EmploymentStatus
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.Status == EmploymentStatusActive
}
