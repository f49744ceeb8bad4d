package journal

import (
	"time"
)

type EntryResponse struct {
	ID          string  `json:"id"`
	Payload             // ledger document fields, inlined
	Attempts    int     `json:"attempts"`
	LastError   *string `json:"last_error,omitempty"`
	DeliveredAt *string `json:"delivered_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func NewEntryResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:        e.ID,
		Payload:   e.Payload(),
		Attempts:  e.Attempts,
		LastError: e.LastError,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.DeliveredAt != nil {
		at := e.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &at
	}
	return resp
}

type RelayResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}
