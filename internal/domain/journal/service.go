package journal

import "context"

type JournalService interface {
	Poster
	ListBySource(ctx context.Context, sourceReference string) ([]EntryResponse, error)

	// RelayPending delivers undelivered entries and reports what happened.
	RelayPending(ctx context.Context) (RelayResult, error)
}
