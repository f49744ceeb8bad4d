package journal

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusApproved              = "approved"
	TypeAutomatic               = "automatic"
	OperationTypePaymentVoucher = "payment_voucher"
)

// Entry is a double-sided accounting record waiting in, or delivered from, the
// outbox. SourceReference is unique: one entry per payroll record.
type Entry struct {
	ID              string
	Date            time.Time
	Description     string
	DebitAccount    string
	CreditAccount   string
	Amount          decimal.Decimal
	Reference       string
	Status          string
	Type            string
	OperationType   string
	SourceReference string

	Attempts    int
	LastError   *string
	DeliveredAt *time.Time
	CreatedAt   time.Time
}

// Payload is the exact document the accounting ledger accepts.
type Payload struct {
	Date            string      `json:"date"`
	Description     string      `json:"description"`
	DebitAccount    string      `json:"debitAccount"`
	CreditAccount   string      `json:"creditAccount"`
	Amount          json.Number `json:"amount"`
	Reference       string      `json:"reference"`
	Status          string      `json:"status"`
	Type            string      `json:"type"`
	OperationType   string      `json:"operationType"`
	SourceReference string      `json:"sourceReference"`
}

func (e Entry) Payload() Payload {
	return Payload{
		Date:            e.Date.Format("2006-01-02"),
		Description:     e.Description,
		DebitAccount:    e.DebitAccount,
		CreditAccount:   e.CreditAccount,
		Amount:          json.Number(e.Amount.StringFixed(2)),
		Reference:       e.Reference,
		Status:          e.Status,
		Type:            e.Type,
		OperationType:   e.OperationType,
		SourceReference: e.SourceReference,
	}
}
