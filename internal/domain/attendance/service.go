package attendance

import (
	"context"
)

// AttendanceService is the attendance ledger.
type AttendanceService interface {
	// CheckIn records the check-in time, creating the day's record if needed.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut records the check-out time and worked hours.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	MarkAbsent(ctx context.Context, req MarkStatusRequest) (AttendanceResponse, error)
	MarkOnLeave(ctx context.Context, req MarkStatusRequest) (AttendanceResponse, error)

	// UpdateStatus corrects the status of an existing record.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (AttendanceResponse, error)

	QueryByEmployee(ctx context.Context, req EmployeeRangeRequest) ([]AttendanceResponse, error)
	QueryByDateRange(ctx context.Context, req DateRangeRequest) ([]AttendanceResponse, error)
	Stats(ctx context.Context, req EmployeeRangeRequest) (StatsResponse, error)
}
