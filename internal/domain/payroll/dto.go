package payroll

import (
	"maps"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PROCESS DTOs
// ========================================

type ProcessPayrollRequest struct {
	EmployeeID          string          `json:"employee_id" validate:"required"`
	EmployeeName        string          `json:"employee_name" validate:"required"`
	Year                int             `json:"year" validate:"required,min=2000,max=2100"`
	Month               int             `json:"month" validate:"required,min=1,max=12"`
	BasicSalary         decimal.Decimal `json:"basic_salary"`
	Allowances          decimal.Decimal `json:"allowances"`
	ExtraDeductions     decimal.Decimal `json:"extra_deductions"`
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`
	OvertimeRate        decimal.Decimal `json:"overtime_rate"`
	AbsentDays          int             `json:"absent_days" validate:"min=0,max=31"`
	LeaveDays           int             `json:"leave_days" validate:"min=0,max=31"`
	AbsentDeductionRate decimal.Decimal `json:"absent_deduction_rate"`
	Notes               *string         `json:"notes,omitempty"`
}

func (r *ProcessPayrollRequest) Validate() error {
	errs := validator.Struct(r)

	if !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "must be greater than 0")
	}
	nonNegative := map[string]decimal.Decimal{
		"allowances":            r.Allowances,
		"extra_deductions":      r.ExtraDeductions,
		"overtime_hours":        r.OvertimeHours,
		"overtime_rate":         r.OvertimeRate,
		"absent_deduction_rate": r.AbsentDeductionRate,
	}
	for _, field := range []string{"allowances", "extra_deductions", "overtime_hours", "overtime_rate", "absent_deduction_rate"} {
		if nonNegative[field].IsNegative() {
			errs.Add(field, "must be at least 0")
		}
	}

	return errs.Err()
}

// Components maps the request onto the computation inputs.
func (r *ProcessPayrollRequest) Components() Components {
	return Components{
		BaseSalary:          r.BasicSalary,
		Allowances:          r.Allowances,
		ExtraDeductions:     r.ExtraDeductions,
		OvertimeHours:       r.OvertimeHours,
		OvertimeRate:        r.OvertimeRate,
		AbsentDays:          r.AbsentDays,
		AbsentDeductionRate: r.AbsentDeductionRate,
	}
}

type ProcessPayrollResponse struct {
	Record  PayrollRecordResponse `json:"record"`
	Created bool                  `json:"created"`
}

// ========================================
// BATCH DTOs
// ========================================

type BatchEmployee struct {
	EmployeeID   string          `json:"employee_id" validate:"required"`
	EmployeeName string          `json:"employee_name" validate:"required"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
}

type BatchPayrollRequest struct {
	// Employees defaults to every active employee in the directory when empty.
	Employees           []BatchEmployee            `json:"employees,omitempty" validate:"omitempty,dive"`
	Year                int                        `json:"year" validate:"required,min=2000,max=2100"`
	Month               int                        `json:"month" validate:"required,min=1,max=12"`
	Allowances          map[string]decimal.Decimal `json:"allowances,omitempty"`
	Deductions          map[string]decimal.Decimal `json:"deductions,omitempty"`
	OvertimeRate        decimal.Decimal            `json:"overtime_rate"`
	AbsentDeductionRate decimal.Decimal            `json:"absent_deduction_rate"`
}

func (r *BatchPayrollRequest) Validate() error {
	errs := validator.Struct(r)
	if r.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "must be at least 0")
	}
	if r.AbsentDeductionRate.IsNegative() {
		errs.Add("absent_deduction_rate", "must be at least 0")
	}
	// Per-employee amounts are checked up front; a rejected batch writes nothing.
	for _, id := range slices.Sorted(maps.Keys(r.Allowances)) {
		if r.Allowances[id].IsNegative() {
			errs.Add("allowances["+id+"]", "must be at least 0")
		}
	}
	for _, id := range slices.Sorted(maps.Keys(r.Deductions)) {
		if r.Deductions[id].IsNegative() {
			errs.Add("deductions["+id+"]", "must be at least 0")
		}
	}
	return errs.Err()
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	PayrollID  string `json:"payroll_id,omitempty"`
	Reason     string `json:"reason"`
}

type BatchPayrollResponse struct {
	PeriodYear  int                     `json:"period_year"`
	PeriodMonth int                     `json:"period_month"`
	MonthLabel  string                  `json:"month_label"`
	Processed   []PayrollRecordResponse `json:"processed"`
	Skipped     []SkippedEmployee       `json:"skipped"`
}

// ========================================
// PAYMENT DTOs
// ========================================

type MarkPaidRequest struct {
	ID                  string  `json:"-" validate:"required"`
	PaymentDate         string  `json:"payment_date" validate:"required,date"`
	PaymentMethod       string  `json:"payment_method" validate:"required,oneof=cash bank check"`
	CounterpartyAccount *string `json:"counterparty_account,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========================================
// QUERY DTOs
// ========================================

type EmployeePayrollRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Start      *string `json:"start,omitempty" validate:"omitempty,yearmonth"`
	End        *string `json:"end,omitempty" validate:"omitempty,yearmonth"`
}

func (r *EmployeePayrollRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 && r.Start != nil && r.End != nil && *r.End < *r.Start {
		errs.Add("end", "must not be before start")
	}
	return errs.Err()
}

// Filter converts the request to a repository filter.
func (r *EmployeePayrollRequest) Filter() PayrollFilter {
	f := PayrollFilter{EmployeeID: r.EmployeeID}
	if r.Start != nil {
		f.FromYear, f.FromMonth, _ = validator.IsValidYearMonth(*r.Start)
	}
	if r.End != nil {
		f.ToYear, f.ToMonth, _ = validator.IsValidYearMonth(*r.End)
	}
	return f
}

type SummaryRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (r *SummaryRequest) Validate() error {
	return validator.Struct(r).Err()
}

// ========================================
// RESPONSE DTOs
// ========================================

type PayrollRecordResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        string          `json:"employee_name"`
	PeriodYear          int             `json:"period_year"`
	PeriodMonth         int             `json:"period_month"`
	MonthLabel          string          `json:"month_label"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	TotalAllowances     decimal.Decimal `json:"total_allowances"`
	AbsentDeduction     decimal.Decimal `json:"absent_deduction"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount      decimal.Decimal `json:"overtime_amount"`
	NetSalary           decimal.Decimal `json:"net_salary"`
	NetSalaryDisplay    string          `json:"net_salary_display"`
	AbsentDays          int             `json:"absent_days"`
	LeaveDays           int             `json:"leave_days"`
	Status              string          `json:"status"`
	PaymentDate         *string         `json:"payment_date,omitempty"`
	PaymentMethod       *string         `json:"payment_method,omitempty"`
	CounterpartyAccount *string         `json:"counterparty_account,omitempty"`
	JournalEntryID      *string         `json:"journal_entry_id,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

type PayrollSummaryResponse struct {
	PeriodYear      int             `json:"period_year"`
	PeriodMonth     int             `json:"period_month"`
	MonthLabel      string          `json:"month_label"`
	TotalEmployees  int             `json:"total_employees"`
	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalNetSalary  decimal.Decimal `json:"total_net_salary"`
	TotalNetDisplay string          `json:"total_net_display"`
	PendingCount    int             `json:"pending_count"`
	PaidCount       int             `json:"paid_count"`
	CancelledCount  int             `json:"cancelled_count"`
}

// NewPayrollRecordResponse renders r; currency drives the display amount.
func NewPayrollRecordResponse(r PayrollRecord, currency string) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:                  r.ID,
		EmployeeID:          r.EmployeeID,
		EmployeeName:        r.EmployeeName,
		PeriodYear:          r.PeriodYear,
		PeriodMonth:         r.PeriodMonth,
		MonthLabel:          r.MonthLabel(),
		BaseSalary:          r.BaseSalary,
		TotalAllowances:     r.TotalAllowances,
		AbsentDeduction:     r.AbsentDeduction,
		TotalDeductions:     r.TotalDeductions,
		OvertimeHours:       r.OvertimeHours,
		OvertimeAmount:      r.OvertimeAmount,
		NetSalary:           r.NetSalary,
		NetSalaryDisplay:    money.Format(r.NetSalary, currency),
		AbsentDays:          r.AbsentDays,
		LeaveDays:           r.LeaveDays,
		Status:              string(r.Status),
		PaymentDate:         formatTime(r.PaymentDate, validator.DateLayout),
		CounterpartyAccount: r.CounterpartyAccount,
		JournalEntryID:      r.JournalEntryID,
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PaymentMethod != nil {
		m := string(*r.PaymentMethod)
		resp.PaymentMethod = &m
	}
	return resp
}

func NewPayrollSummaryResponse(s Summary, currency string) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		PeriodYear:      s.PeriodYear,
		PeriodMonth:     s.PeriodMonth,
		MonthLabel:      MonthLabel(s.PeriodYear, s.PeriodMonth),
		TotalEmployees:  s.TotalEmployees,
		TotalBaseSalary: s.TotalBaseSalary,
		TotalAllowances: s.TotalAllowances,
		TotalDeductions: s.TotalDeductions,
		TotalOvertime:   s.TotalOvertime,
		TotalNetSalary:  s.TotalNetSalary,
		TotalNetDisplay: money.Format(s.TotalNetSalary, currency),
		PendingCount:    s.PendingCount,
		PaidCount:       s.PaidCount,
		CancelledCount:  s.CancelledCount,
	}
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}
