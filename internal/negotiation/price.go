package negotiation

import "rozgaarsetu/internal/models"

// EffectivePrice computes the price both parties are currently negotiating
// over: the proposed price of the newest ledger entry that carries a
// positive one, falling back to the booking's original asking price when no
// offer was ever made. Messages without a positive price are skipped, so a
// plain message or a time change never resets the effective price.
//
// The messages slice is expected oldest first, as returned by
// ListNegotiations; ties on created_at are already broken by insertion
// order in the store.
func EffectivePrice(booking *models.Booking, messages []*models.NegotiationMessage) float64 {
	for i := len(messages) - 1; i >= 0; i-- {
		if p := messages[i].ProposedPrice; p != nil && *p > 0 {
			return *p
		}
	}
	return booking.OfferedPrice
}
