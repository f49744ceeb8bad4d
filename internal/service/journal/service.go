package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

const defaultRelayBatch = 50

type journalServiceImpl struct {
	entryRepo    journal.EntryRepository
	client       journal.LedgerClient
	queryTimeout time.Duration
	batchSize    int
	now          func() time.Time
}

// NewJournalService wires the outbox. client may be nil, in which case entries
// are stored but never relayed.
func NewJournalService(entryRepo journal.EntryRepository, client journal.LedgerClient, queryTimeout time.Duration) journal.JournalService {
	return &journalServiceImpl{
		entryRepo:    entryRepo,
		client:       client,
		queryTimeout: queryTimeout,
		batchSize:    defaultRelayBatch,
		now:          time.Now,
	}
}

// Post implements journal.Poster.
func (s *journalServiceImpl) Post(ctx context.Context, entry journal.Entry) (journal.Entry, error) {
	if entry.Status == "" {
		entry.Status = journal.StatusApproved
	}
	if entry.Type == "" {
		entry.Type = journal.TypeAutomatic
	}
	if entry.OperationType == "" {
		entry.OperationType = journal.OperationTypePaymentVoucher
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return journal.Entry{}, err
	}

	slog.Info("Journal entry posted",
		"journal_entry_id", created.ID,
		"source_reference", created.SourceReference,
		"amount", created.Amount.String(),
	)
	return created, nil
}

// ListBySource implements journal.JournalService.
func (s *journalServiceImpl) ListBySource(ctx context.Context, sourceReference string) ([]journal.EntryResponse, error) {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	entries, err := s.entryRepo.ListBySource(ctx, sourceReference)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	responses := make([]journal.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, journal.NewEntryResponse(e))
	}
	return responses, nil
}

// RelayPending implements journal.JournalService. A failed delivery is recorded
// on the entry and retried on the next run; it does not stop the batch.
func (s *journalServiceImpl) RelayPending(ctx context.Context) (journal.RelayResult, error) {
	var result journal.RelayResult
	if s.client == nil {
		return result, nil
	}

	listCtx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	entries, err := s.entryRepo.ListUndelivered(listCtx, s.batchSize)
	cancel()
	if err != nil {
		return result, fmt.Errorf("failed to list undelivered journal entries: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if sendErr := s.client.Send(ctx, entry.Payload()); sendErr != nil {
			result.Failed++
			slog.Warn("Journal entry delivery failed",
				"journal_entry_id", entry.ID,
				"attempts", entry.Attempts+1,
				"error", sendErr,
			)
			if err := s.recordFailure(ctx, entry.ID, sendErr.Error()); err != nil {
				return result, err
			}
			continue
		}

		markCtx, cancel := database.WithTimeout(ctx, s.queryTimeout)
		err := s.entryRepo.MarkDelivered(markCtx, entry.ID, s.now().UTC())
		cancel()
		if err != nil {
			return result, fmt.Errorf("failed to mark journal entry delivered: %w", err)
		}
		result.Delivered++
	}

	return result, nil
}

func (s *journalServiceImpl) recordFailure(ctx context.Context, id, msg string) error {
	ctx, cancel := database.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.entryRepo.RecordFailure(ctx, id, msg); err != nil {
		return fmt.Errorf("failed to record journal delivery failure: %w", err)
	}
	return nil
}
