package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var got map[string]any
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	err := c.Send(context.Background(), journal.Payload{
		Date:            "2025-01-31",
		Description:     "Salary January 2025 - Sara",
		DebitAccount:    "Salaries - Sara",
		CreditAccount:   "Bank",
		Amount:          json.Number("8300.00"),
		Reference:       "PAY-2025-01-e1",
		Status:          journal.StatusApproved,
		Type:            journal.TypeAutomatic,
		OperationType:   journal.OperationTypePaymentVoucher,
		SourceReference: "pr-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "pr-1", key)
	assert.Equal(t, "Salaries - Sara", got["debitAccount"])
	assert.Equal(t, "Bank", got["creditAccount"])
	assert.Equal(t, 8300.0, got["amount"])
	assert.Equal(t, "payment_voucher", got["operationType"])
	assert.Equal(t, "pr-1", got["sourceReference"])
}

func TestClientSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "account unknown", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, 0).Send(context.Background(), journal.Payload{SourceReference: "x", Amount: "1"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "account unknown")
}
