package negotiation

import "errors"

var (
	// ErrNotParty is returned when the caller is neither the customer nor
	// the worker attached to the booking.
	ErrNotParty = errors.New("caller is not a party to this booking")

	// ErrInvalidTransition is returned when the requested action is not
	// legal for the booking's current status or the caller's role.
	ErrInvalidTransition = errors.New("action not allowed for current booking status")

	// ErrEmptySubmission is returned for a counter that carries neither
	// message text nor a proposed price.
	ErrEmptySubmission = errors.New("negotiation requires a message or a proposed price")

	// ErrInvalidPrice is returned for a price offer whose proposed price is
	// not a positive number.
	ErrInvalidPrice = errors.New("proposed price must be greater than zero")

	// ErrUnknownMessageType is returned for a message type outside the
	// ledger vocabulary.
	ErrUnknownMessageType = errors.New("unknown negotiation message type")
)
