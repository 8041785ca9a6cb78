package models

// Record statuses. A signal produces one "received" row at acceptance and
// one terminal row per delivery attempt; rows are never updated.
const (
	StatusReceived = "received"
	StatusSent     = "sent"
	StatusError    = "error"
)

// DeliveryRecord is one row of the append-only signal log.
// Symbol is the ingress channel or queue the row was written for;
// Name is the target symbol declared inside the signal payload.
// Timestamps are unix milliseconds.
type DeliveryRecord struct {
	ID           int64   `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Data         string  `json:"data"`
	Status       string  `json:"status"`
	CreatedAt    int64   `json:"created_at"`
	SentAt       *int64  `json:"sent_at,omitempty"`
	ResponseCode *int    `json:"response_code,omitempty"`
	ResponseText *string `json:"response_text,omitempty"`
}
