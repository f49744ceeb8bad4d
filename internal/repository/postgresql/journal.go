package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const journalColumns = `id, date, description, debit_account, credit_account, amount, reference,
	status, type, operation_type, source_reference, attempts, last_error, delivered_at, created_at`

type journalRepository struct {
	db *database.DB
}

func NewJournalRepository(db *database.DB) journal.EntryRepository {
	return &journalRepository{db: db}
}

func scanEntry(row pgx.Row) (journal.Entry, error) {
	var e journal.Entry
	err := row.Scan(
		&e.ID, &e.Date, &e.Description, &e.DebitAccount, &e.CreditAccount, &e.Amount, &e.Reference,
		&e.Status, &e.Type, &e.OperationType, &e.SourceReference, &e.Attempts, &e.LastError, &e.DeliveredAt, &e.CreatedAt,
	)
	return e, err
}

// Create implements journal.EntryRepository.
func (j *journalRepository) Create(ctx context.Context, entry journal.Entry) (journal.Entry, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		INSERT INTO journal_entries (
			id, date, description, debit_account, credit_account, amount, reference,
			status, type, operation_type, source_reference
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING ` + journalColumns

	created, err := scanEntry(q.QueryRow(ctx, query,
		entry.Date, entry.Description, entry.DebitAccount, entry.CreditAccount, entry.Amount, entry.Reference,
		entry.Status, entry.Type, entry.OperationType, entry.SourceReference,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return journal.Entry{}, journal.ErrSourceReferenceExists
		}
		return journal.Entry{}, fmt.Errorf("failed to create journal entry: %w", err)
	}
	return created, nil
}

// ListBySource implements journal.EntryRepository.
func (j *journalRepository) ListBySource(ctx context.Context, sourceReference string) ([]journal.Entry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE source_reference = $1
		ORDER BY created_at ASC
	`
	return j.list(ctx, query, sourceReference)
}

// ListUndelivered implements journal.EntryRepository.
func (j *journalRepository) ListUndelivered(ctx context.Context, limit int) ([]journal.Entry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE delivered_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	return j.list(ctx, query, limit)
}

func (j *journalRepository) list(ctx context.Context, query string, args ...any) ([]journal.Entry, error) {
	q := GetQuerier(ctx, j.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]journal.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkDelivered implements journal.EntryRepository.
func (j *journalRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `
		UPDATE journal_entries
		SET delivered_at = $2, attempts = attempts + 1, last_error = NULL
		WHERE id::text = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return journal.ErrEntryNotFound
	}
	return nil
}

// RecordFailure implements journal.EntryRepository.
func (j *journalRepository) RecordFailure(ctx context.Context, id string, message string) error {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `
		UPDATE journal_entries
		SET attempts = attempts + 1, last_error = $2
		WHERE id::text = $1
	`, id, message)
	if err != nil {
		return fmt.Errorf("failed to record journal failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return journal.ErrEntryNotFound
	}
	return nil
}
