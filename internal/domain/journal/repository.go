package journal

import (
	"context"
	"time"
)

// EntryRepository is the journal outbox.
type EntryRepository interface {
	// Create returns ErrSourceReferenceExists when the source already has an entry.
	Create(ctx context.Context, entry Entry) (Entry, error)
	ListBySource(ctx context.Context, sourceReference string) ([]Entry, error)

	// ListUndelivered returns up to limit entries oldest first.
	ListUndelivered(ctx context.Context, limit int) ([]Entry, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	RecordFailure(ctx context.Context, id string, message string) error
}

// Poster records an entry for the ledger. Called inside a unit of work, the
// entry commits or rolls back with the caller's other writes.
type Poster interface {
	Post(ctx context.Context, entry Entry) (Entry, error)
}

// LedgerClient delivers entries to the external accounting ledger.
type LedgerClient interface {
	Send(ctx context.Context, payload Payload) error
}
