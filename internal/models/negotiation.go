package models

import "time"

// NegotiationMessage is one entry in a booking's append-only negotiation
// ledger. Rows are never updated or deleted; the current price of a booking
// is always derived from the ledger, never stored alongside it.
type NegotiationMessage struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	SenderID      string    `json:"sender_id"`
	MessageType   string    `json:"message_type"`
	ProposedPrice *float64  `json:"proposed_price,omitempty"`
	ProposedDate  string    `json:"proposed_date,omitempty"`
	ProposedTime  string    `json:"proposed_time,omitempty"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Seq           int64     `json:"seq"`
}
