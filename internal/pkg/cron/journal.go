package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
)

type JournalJobs struct {
	relay    journal.JournalService
	interval time.Duration
}

func NewJournalJobs(relay journal.JournalService, interval time.Duration) *JournalJobs {
	if interval <= 0 {
		interval = time.Minute
	}
	return &JournalJobs{relay: relay, interval: interval}
}

func (j *JournalJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("relay_journal_entries", j.interval, j.RelayJournalEntries)
}

// RelayJournalEntries delivers outbox entries to the accounting ledger.
func (j *JournalJobs) RelayJournalEntries(ctx context.Context) error {
	result, err := j.relay.RelayPending(ctx)
	if err != nil {
		return err
	}
	if result.Delivered > 0 || result.Failed > 0 {
		slog.Info("Cron: Relayed journal entries", "delivered", result.Delivered, "failed", result.Failed)
	}
	return nil
}
