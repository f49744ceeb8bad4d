package shift

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

var (
	ErrShiftNotFound      = apperror.NotFound("shift not found")
	ErrAssignmentNotFound = apperror.NotFound("shift assignment not found")
	ErrShiftCodeExists    = apperror.Conflict("shift with this code already exists")
)
