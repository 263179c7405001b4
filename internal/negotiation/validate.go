package negotiation

import (
	"strings"

	"rozgaarsetu/internal/models"
)

// Submission is a party's negotiation input before it becomes a ledger row.
type Submission struct {
	MessageType   string
	Message       string
	ProposedPrice *float64
	ProposedDate  string
	ProposedTime  string
}

// Classify normalizes the submission's declared message type against its
// payload the way the booking screens do: a declared price offer without a
// price degrades to a plain message, and a time change without a new date or
// time does the same.
func (s *Submission) Classify() string {
	switch s.MessageType {
	case models.MessageTypePriceOffer:
		if s.ProposedPrice != nil && *s.ProposedPrice > 0 {
			return models.MessageTypePriceOffer
		}
		return models.MessageTypeMessage
	case models.MessageTypeTimeChange:
		if s.ProposedDate != "" || s.ProposedTime != "" {
			return models.MessageTypeTimeChange
		}
		return models.MessageTypeMessage
	case models.MessageTypeMessage, models.MessageTypeAcceptance, models.MessageTypeRejection:
		return s.MessageType
	default:
		return ""
	}
}

// Validate rejects malformed submissions before anything reaches the store.
func (s *Submission) Validate() error {
	kind := s.Classify()
	if kind == "" {
		return ErrUnknownMessageType
	}

	if s.ProposedPrice != nil && *s.ProposedPrice <= 0 {
		return ErrInvalidPrice
	}

	switch kind {
	case models.MessageTypeAcceptance, models.MessageTypeRejection:
		// No payload required.
		return nil
	default:
		if strings.TrimSpace(s.Message) == "" && s.ProposedPrice == nil &&
			s.ProposedDate == "" && s.ProposedTime == "" {
			return ErrEmptySubmission
		}
	}
	return nil
}
