package database

import (
	"context"
	"database/sql"
	"fmt"

	"rozgaarsetu/internal/models"
)

// ListNegotiations returns the full ledger for a booking, oldest first.
// The insertion rowid breaks created_at ties so replay order is stable.
func (db *DB) ListNegotiations(ctx context.Context, bookingID string) ([]*models.NegotiationMessage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT seq, id, booking_id, sender_id, message_type, proposed_price,
                     proposed_date, proposed_time, message, created_at
              FROM booking_negotiations
              WHERE booking_id = ?
              ORDER BY created_at ASC, seq ASC`
	rows, err := db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query negotiations: %w", err)
	}
	defer rows.Close()

	var messages []*models.NegotiationMessage
	for rows.Next() {
		var m models.NegotiationMessage
		var proposed sql.NullFloat64
		err := rows.Scan(
			&m.Seq, &m.ID, &m.BookingID, &m.SenderID, &m.MessageType, &proposed,
			&m.ProposedDate, &m.ProposedTime, &m.Message, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan negotiation: %w", err)
		}
		if proposed.Valid {
			v := proposed.Float64
			m.ProposedPrice = &v
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (db *DB) CountNegotiations(ctx context.Context, bookingID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	query := `SELECT COUNT(*) FROM booking_negotiations WHERE booking_id = ?`
	if err := db.QueryRowContext(ctx, query, bookingID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count negotiations: %w", err)
	}
	return count, nil
}
