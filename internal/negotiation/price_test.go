package negotiation

import (
	"testing"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
)

func price(v float64) *float64 { return &v }

func msg(sender string, p *float64, seq int64) *models.NegotiationMessage {
	kind := models.MessageTypeMessage
	if p != nil {
		kind = models.MessageTypePriceOffer
	}
	return &models.NegotiationMessage{
		ID:            "m",
		BookingID:     "b-1",
		SenderID:      sender,
		MessageType:   kind,
		ProposedPrice: p,
		CreatedAt:     time.Unix(1700000000+seq, 0),
		Seq:           seq,
	}
}

func TestEffectivePriceEmptyLedger(t *testing.T) {
	b := testBooking(models.StatusPending)
	assert.Equal(t, 500.0, EffectivePrice(b, nil))
	assert.Equal(t, 500.0, EffectivePrice(b, []*models.NegotiationMessage{}))
}

func TestEffectivePriceLatestOfferWins(t *testing.T) {
	b := testBooking(models.StatusNegotiating)
	history := []*models.NegotiationMessage{
		msg("work-1", price(650), 1),
		msg("cust-1", price(600), 2),
		msg("work-1", price(620), 3),
	}
	assert.Equal(t, 620.0, EffectivePrice(b, history))
}

func TestEffectivePriceCarriesThroughPlainMessages(t *testing.T) {
	b := testBooking(models.StatusNegotiating)

	// Worker offers 650, customer replies without a price.
	history := []*models.NegotiationMessage{
		msg("work-1", price(650), 1),
		msg("cust-1", nil, 2),
	}
	assert.Equal(t, 650.0, EffectivePrice(b, history))

	// Then the worker comes down to 600.
	history = append(history, msg("work-1", price(600), 3))
	assert.Equal(t, 600.0, EffectivePrice(b, history))

	// A time change afterwards does not reset it either.
	tc := msg("cust-1", nil, 4)
	tc.MessageType = models.MessageTypeTimeChange
	tc.ProposedDate = "2026-09-15"
	history = append(history, tc)
	assert.Equal(t, 600.0, EffectivePrice(b, history))
}

func TestEffectivePriceIgnoresNonPositive(t *testing.T) {
	b := testBooking(models.StatusNegotiating)
	history := []*models.NegotiationMessage{
		msg("work-1", price(650), 1),
		msg("cust-1", price(0), 2),
	}
	assert.Equal(t, 650.0, EffectivePrice(b, history))

	// Only zero-or-absent prices in the ledger: fall back to the ask.
	history = []*models.NegotiationMessage{msg("cust-1", price(0), 1)}
	assert.Equal(t, 500.0, EffectivePrice(b, history))
}
