package employee

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.NotFound("employee not found")
)
