package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeAnnual     LeaveType = "annual"
	LeaveTypeSick       LeaveType = "sick"
	LeaveTypeEmergency  LeaveType = "emergency"
	LeaveTypeMaternity  LeaveType = "maternity"
	LeaveTypePilgrimage LeaveType = "pilgrimage"
	LeaveTypeOther      LeaveType = "other"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest entity. Status moves from pending to approved or rejected once.
type LeaveRequest struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Type         LeaveType

	StartDate time.Time
	EndDate   time.Time
	Days      int

	Reason *string

	Status          LeaveRequestStatus
	RequestedAt     time.Time
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaysInRange counts calendar days from start to end inclusive.
func DaysInRange(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// Dates lists every calendar day of the request.
func (r LeaveRequest) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days)
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Allotment is the number of days granted per bucket.
type Allotment struct {
	Annual    int
	Sick      int
	Emergency int
}

// DefaultAllotment applies when an employee has no stored balance.
var DefaultAllotment = Allotment{Annual: 30, Sick: 30, Emergency: 5}

// Balance tracks granted and used days per bucket for one employee.
type Balance struct {
	EmployeeID     string
	AnnualTotal    int
	AnnualUsed     int
	SickTotal      int
	SickUsed       int
	EmergencyTotal int
	EmergencyUsed  int
	UpdatedAt      time.Time
}

func NewBalance(employeeID string, a Allotment) Balance {
	return Balance{
		EmployeeID:     employeeID,
		AnnualTotal:    a.Annual,
		SickTotal:      a.Sick,
		EmergencyTotal: a.Emergency,
	}
}

// Consume adds days to the bucket matching t. It reports whether the type has
// a bucket at all and whether usage now exceeds the allotment.
func (b *Balance) Consume(t LeaveType, days int) (tracked bool, exceeds bool) {
	switch t {
	case LeaveTypeAnnual:
		b.AnnualUsed += days
		return true, b.AnnualUsed > b.AnnualTotal
	case LeaveTypeSick:
		b.SickUsed += days
		return true, b.SickUsed > b.SickTotal
	case LeaveTypeEmergency:
		b.EmergencyUsed += days
		return true, b.EmergencyUsed > b.EmergencyTotal
	}
	return false, false
}

// BalancePolicy decides what approval does when a request overdraws a bucket.
type BalancePolicy string

const (
	// BalancePolicyFlag approves and reports the overdraft.
	BalancePolicyFlag BalancePolicy = "flag"
	// BalancePolicyEnforce refuses the approval.
	BalancePolicyEnforce BalancePolicy = "enforce"
)
