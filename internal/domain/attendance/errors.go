package attendance

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAttendanceNotFound = apperror.NotFound("attendance record not found")
	ErrNotCheckedIn       = apperror.Dependency("employee has not checked in on this date")
)
