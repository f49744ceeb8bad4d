package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Payload_LedgerDocument(t *testing.T) {
	entry := Entry{
		ID:              "entry-1",
		Date:            time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description:     "Salary payment - Ana - March 2025",
		DebitAccount:    "Salaries - Ana",
		CreditAccount:   "Bank - Operating",
		Amount:          decimal.NewFromInt(8300),
		Reference:       "PAY-2025-03-emp-1",
		Status:          StatusApproved,
		Type:            TypeAutomatic,
		OperationType:   OperationTypePaymentVoucher,
		SourceReference: "payroll-1",
	}

	raw, err := json.Marshal(entry.Payload())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"date": "2025-04-01",
		"description": "Salary payment - Ana - March 2025",
		"debitAccount": "Salaries - Ana",
		"creditAccount": "Bank - Operating",
		"amount": 8300.00,
		"reference": "PAY-2025-03-emp-1",
		"status": "approved",
		"type": "automatic",
		"operationType": "payment_voucher",
		"sourceReference": "payroll-1"
	}`, string(raw))
}
