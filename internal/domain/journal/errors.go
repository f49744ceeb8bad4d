package journal

import "github.com/cmlabs-hris/workforce-backend-go/internal/pkg/apperror"

var (
	ErrEntryNotFound         = apperror.NotFound("journal entry not found")
	ErrSourceReferenceExists = apperror.Conflict("journal entry already posted for this source")
)
