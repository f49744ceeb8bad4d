package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu     sync.Mutex
	sent   []journal.Payload
	failOn map[string]bool
}

func (c *recordingClient) Send(_ context.Context, payload journal.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn[payload.SourceReference] {
		return errors.New("ledger returned 503")
	}
	c.sent = append(c.sent, payload)
	return nil
}

func testEntry(source string) journal.Entry {
	return journal.Entry{
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description:     "Salary payment - Ana - March 2025",
		DebitAccount:    "Salaries - Ana",
		CreditAccount:   "Bank - Operating",
		Amount:          decimal.RequireFromString("8300.5"),
		Reference:       "PAY-2025-03-emp-1",
		SourceReference: source,
	}
}

func TestJournalService_Post_FillsDefaults(t *testing.T) {
	store := memory.NewStore()
	svc := NewJournalService(memory.NewJournalRepository(store), nil, time.Second)

	created, err := svc.Post(context.Background(), testEntry("payroll-1"))

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, journal.StatusApproved, created.Status)
	assert.Equal(t, journal.TypeAutomatic, created.Type)
	assert.Equal(t, journal.OperationTypePaymentVoucher, created.OperationType)
}

func TestJournalService_Post_DuplicateSource(t *testing.T) {
	store := memory.NewStore()
	svc := NewJournalService(memory.NewJournalRepository(store), nil, time.Second)
	ctx := context.Background()

	_, err := svc.Post(ctx, testEntry("payroll-1"))
	require.NoError(t, err)

	_, err = svc.Post(ctx, testEntry("payroll-1"))
	assert.ErrorIs(t, err, journal.ErrSourceReferenceExists)

	entries, err := svc.ListBySource(ctx, "payroll-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournalService_RelayPending_DeliversOnce(t *testing.T) {
	store := memory.NewStore()
	client := &recordingClient{}
	svc := NewJournalService(memory.NewJournalRepository(store), client, time.Second)
	ctx := context.Background()

	_, err := svc.Post(ctx, testEntry("payroll-1"))
	require.NoError(t, err)
	_, err = svc.Post(ctx, testEntry("payroll-2"))
	require.NoError(t, err)

	result, err := svc.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, journal.RelayResult{Delivered: 2}, result)

	again, err := svc.RelayPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Delivered)

	require.Len(t, client.sent, 2)
	payload := client.sent[0]
	assert.Equal(t, "2025-04-01", payload.Date)
	assert.Equal(t, "8300.50", payload.Amount.String())
	assert.Equal(t, "payment_voucher", payload.OperationType)

	entries, err := svc.ListBySource(ctx, "payroll-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].DeliveredAt)
	assert.Equal(t, 1, entries[0].Attempts)
}

func TestJournalService_RelayPending_RecordsFailureAndRetries(t *testing.T) {
	store := memory.NewStore()
	client := &recordingClient{failOn: map[string]bool{"payroll-1": true}}
	svc := NewJournalService(memory.NewJournalRepository(store), client, time.Second)
	ctx := context.Background()

	_, err := svc.Post(ctx, testEntry("payroll-1"))
	require.NoError(t, err)

	result, err := svc.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, journal.RelayResult{Failed: 1}, result)

	entries, err := svc.ListBySource(ctx, "payroll-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].DeliveredAt)
	require.NotNil(t, entries[0].LastError)
	assert.Contains(t, *entries[0].LastError, "503")

	client.mu.Lock()
	client.failOn = nil
	client.mu.Unlock()

	result, err = svc.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, journal.RelayResult{Delivered: 1}, result)
}

func TestJournalService_RelayPending_NoClient(t *testing.T) {
	store := memory.NewStore()
	svc := NewJournalService(memory.NewJournalRepository(store), nil, time.Second)
	ctx := context.Background()
	_, err := svc.Post(ctx, testEntry("payroll-1"))
	require.NoError(t, err)

	result, err := svc.RelayPending(ctx)

	require.NoError(t, err)
	assert.Equal(t, journal.RelayResult{}, result)
}
