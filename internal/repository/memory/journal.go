package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
)

type journalRepository struct {
	store *Store
}

func NewJournalRepository(store *Store) journal.EntryRepository {
	return &journalRepository{store: store}
}

// Create implements journal.EntryRepository.
func (r *journalRepository) Create(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	err := r.store.write(ctx, func(t *tables) error {
		for _, existing := range t.journal {
			if existing.SourceReference == e.SourceReference {
				return journal.ErrSourceReferenceExists
			}
		}
		e.ID = newID()
		e.CreatedAt = r.store.now().UTC()
		t.journal[e.ID] = e
		return nil
	})
	if err != nil {
		return journal.Entry{}, err
	}
	return e, nil
}

// ListBySource implements journal.EntryRepository. An empty reference lists all.
func (r *journalRepository) ListBySource(ctx context.Context, sourceReference string) ([]journal.Entry, error) {
	return r.filter(ctx, 0, func(e journal.Entry) bool {
		return sourceReference == "" || e.SourceReference == sourceReference
	})
}

// ListUndelivered implements journal.EntryRepository.
func (r *journalRepository) ListUndelivered(ctx context.Context, limit int) ([]journal.Entry, error) {
	return r.filter(ctx, limit, func(e journal.Entry) bool {
		return e.DeliveredAt == nil
	})
}

func (r *journalRepository) filter(ctx context.Context, limit int, keep func(journal.Entry) bool) ([]journal.Entry, error) {
	var out []journal.Entry
	err := r.store.read(ctx, func(t *tables) error {
		for _, e := range t.journal {
			if keep(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b journal.Entry) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// MarkDelivered implements journal.EntryRepository.
func (r *journalRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(e *journal.Entry) {
		e.Attempts++
		e.DeliveredAt = &at
		e.LastError = nil
	})
}

// RecordFailure implements journal.EntryRepository.
func (r *journalRepository) RecordFailure(ctx context.Context, id string, message string) error {
	return r.update(ctx, id, func(e *journal.Entry) {
		e.Attempts++
		e.LastError = &message
	})
}

func (r *journalRepository) update(ctx context.Context, id string, fn func(e *journal.Entry)) error {
	return r.store.write(ctx, func(t *tables) error {
		e, ok := t.journal[id]
		if !ok {
			return journal.ErrEntryNotFound
		}
		fn(&e)
		t.journal[id] = e
		return nil
	})
}
