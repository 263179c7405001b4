package database

import (
	"context"
	"testing"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNegotiationsOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	booking := testBooking()
	require.NoError(t, db.CreateBooking(ctx, booking))

	offers := []float64{650, 600, 620}
	version := booking.Version
	for _, p := range offers {
		price := p
		msg := &models.NegotiationMessage{
			BookingID:     booking.ID,
			SenderID:      booking.WorkerID,
			MessageType:   models.MessageTypePriceOffer,
			ProposedPrice: &price,
		}
		require.NoError(t, db.AppendNegotiationWithStatus(ctx, msg, version, models.StatusNegotiating))
		version++
	}

	messages, err := db.ListNegotiations(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	// Oldest first, seq strictly increasing even when created_at collides.
	for i, p := range offers {
		require.NotNil(t, messages[i].ProposedPrice)
		assert.Equal(t, p, *messages[i].ProposedPrice)
		if i > 0 {
			assert.Greater(t, messages[i].Seq, messages[i-1].Seq)
		}
	}

	count, err := db.CountNegotiations(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListNegotiationsEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	messages, err := db.ListNegotiations(context.Background(), "no-such-booking")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestNegotiationNullPriceRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	booking := testBooking()
	require.NoError(t, db.CreateBooking(ctx, booking))

	msg := &models.NegotiationMessage{
		BookingID:   booking.ID,
		SenderID:    booking.CustomerID,
		MessageType: models.MessageTypeMessage,
		Message:     "Is tomorrow morning fine?",
	}
	require.NoError(t, db.AppendNegotiationWithStatus(ctx, msg, booking.Version, models.StatusNegotiating))

	messages, err := db.ListNegotiations(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].ProposedPrice)
	assert.Equal(t, "Is tomorrow morning fine?", messages[0].Message)
}
