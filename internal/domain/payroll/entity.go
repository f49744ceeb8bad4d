package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodBank  PaymentMethod = "bank"
	PaymentMethodCheck PaymentMethod = "check"
)

// PayrollRecord - one employee's payroll for one month.
// (EmployeeID, PeriodYear, PeriodMonth) is unique.
type PayrollRecord struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	PeriodYear   int
	PeriodMonth  int

	BaseSalary      decimal.Decimal
	TotalAllowances decimal.Decimal
	ExtraDeductions decimal.Decimal
	AbsentDeduction decimal.Decimal
	TotalDeductions decimal.Decimal
	OvertimeHours   decimal.Decimal
	OvertimeAmount  decimal.Decimal
	NetSalary       decimal.Decimal

	AbsentDays int
	LeaveDays  int

	Status              PayrollStatus
	PaymentDate         *time.Time
	PaymentMethod       *PaymentMethod
	CounterpartyAccount *string
	JournalEntryID      *string
	Notes               *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MonthLabel renders the period as "January 2025".
func (r PayrollRecord) MonthLabel() string {
	return MonthLabel(r.PeriodYear, r.PeriodMonth)
}

func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// PeriodBounds returns the first and last day of the month.
func PeriodBounds(year, month int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Components are the inputs of one payroll computation.
type Components struct {
	BaseSalary          decimal.Decimal
	Allowances          decimal.Decimal
	ExtraDeductions     decimal.Decimal
	OvertimeHours       decimal.Decimal
	OvertimeRate        decimal.Decimal
	AbsentDays          int
	AbsentDeductionRate decimal.Decimal
}

// Amounts are the derived money values.
type Amounts struct {
	OvertimePay     decimal.Decimal
	AbsentDeduction decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// Compute applies
//
//	overtimePay     = overtimeHours * overtimeRate
//	absentDeduction = absentDays * absentDeductionRate
//	deductions      = extraDeductions + absentDeduction
//	net             = base + allowances + overtimePay - deductions
func Compute(c Components) Amounts {
	overtime := c.OvertimeHours.Mul(c.OvertimeRate)
	absent := decimal.NewFromInt(int64(c.AbsentDays)).Mul(c.AbsentDeductionRate)
	deductions := c.ExtraDeductions.Add(absent)
	net := c.BaseSalary.Add(c.Allowances).Add(overtime).Sub(deductions)
	return Amounts{
		OvertimePay:     overtime,
		AbsentDeduction: absent,
		TotalDeductions: deductions,
		NetSalary:       net,
	}
}

// EstimateOvertime returns max(0, totalHours - presentDays*standardHours).
func EstimateOvertime(totalHours float64, presentDays int, standardHours float64) decimal.Decimal {
	extra := decimal.NewFromFloat(totalHours).Sub(decimal.NewFromFloat(standardHours).Mul(decimal.NewFromInt(int64(presentDays))))
	if extra.IsNegative() {
		return decimal.Zero
	}
	return extra.Round(1)
}

// Summary aggregates a month's records.
type Summary struct {
	PeriodYear      int
	PeriodMonth     int
	TotalEmployees  int
	TotalBaseSalary decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalOvertime   decimal.Decimal
	TotalNetSalary  decimal.Decimal
	PendingCount    int
	PaidCount       int
	CancelledCount  int
}

// PayrollFilter narrows per-employee listings. Zero periods are open bounds.
type PayrollFilter struct {
	EmployeeID string
	FromYear   int
	FromMonth  int
	ToYear     int
	ToMonth    int
}
