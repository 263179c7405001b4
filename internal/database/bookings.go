package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/google/uuid"
)

const bookingColumns = `id, customer_id, worker_id, service_id, description, location,
                 preferred_date, preferred_time, special_instructions, customer_phone,
                 offered_price, final_price, scheduled_at, completed_at, status,
                 created_at, updated_at, version`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	query := `INSERT INTO bookings (
                id, customer_id, worker_id, service_id, description, location,
                preferred_date, preferred_time, special_instructions, customer_phone,
                offered_price, status, created_at, updated_at, version
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.WorkerID,
		booking.ServiceID,
		booking.Description,
		booking.Location,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.SpecialInstructions,
		booking.CustomerPhone,
		booking.OfferedPrice,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var finalPrice sql.NullFloat64
	var scheduledAt, completedAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.WorkerID, &b.ServiceID, &b.Description, &b.Location,
		&b.PreferredDate, &b.PreferredTime, &b.SpecialInstructions, &b.CustomerPhone,
		&b.OfferedPrice, &finalPrice, &scheduledAt, &completedAt, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	if finalPrice.Valid {
		v := finalPrice.Float64
		b.FinalPrice = &v
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		b.ScheduledAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return &b, nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (db *DB) GetBookingsByCustomer(ctx context.Context, customerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, customerID)
}

func (db *DB) GetBookingsByWorker(ctx context.Context, workerID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE worker_id = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, workerID)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE date(created_at) >= ? AND date(created_at) <= ? ORDER BY created_at ASC`
	return db.queryBookings(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// AppendNegotiationWithStatus inserts a ledger entry and applies the induced
// status transition as one transaction, conditioned on the booking's version.
// Either both writes land or neither does; a losing concurrent writer gets
// ErrConcurrentModification and no ledger entry.
func (db *DB) AppendNegotiationWithStatus(ctx context.Context, msg *models.NegotiationMessage, fromVersion int64, newStatus string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	update := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, update, newStatus, now, msg.BookingID, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	if err := insertNegotiationTx(ctx, tx, msg, now); err != nil {
		return err
	}

	return tx.Commit()
}

func insertNegotiationTx(ctx context.Context, tx *sql.Tx, msg *models.NegotiationMessage, now time.Time) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	var proposed any
	if msg.ProposedPrice != nil {
		proposed = *msg.ProposedPrice
	}

	insert := `INSERT INTO booking_negotiations (
                id, booking_id, sender_id, message_type, proposed_price,
                proposed_date, proposed_time, message, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insert,
		msg.ID, msg.BookingID, msg.SenderID, msg.MessageType, proposed,
		msg.ProposedDate, msg.ProposedTime, msg.Message, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert negotiation: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get negotiation seq: %w", err)
	}
	msg.Seq = seq
	msg.CreatedAt = now
	return nil
}

// UpdateBookingStatusWithVersion is the plain compare-and-swap status write
// for transitions that carry no ledger entry.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// ConfirmBookingWithVersion schedules an accepted booking: status confirmed,
// final price and scheduled time set in the same conditional write.
func (db *DB) ConfirmBookingWithVersion(ctx context.Context, id string, fromVersion int64, finalPrice float64, scheduledAt time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE bookings SET status = ?, final_price = ?, scheduled_at = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, models.StatusConfirmed, finalPrice, scheduledAt, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// CompleteBookingWithVersion finishes an in-progress booking and stamps
// completed_at.
func (db *DB) CompleteBookingWithVersion(ctx context.Context, id string, fromVersion int64, completedAt time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE bookings SET status = ?, completed_at = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, models.StatusCompleted, completedAt, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// UpdateBookingRequest lets the customer edit request fields, but only while
// the booking is still pending with no worker response on file.
func (db *DB) UpdateBookingRequest(ctx context.Context, booking *models.Booking, fromVersion int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE bookings SET description = ?, location = ?, preferred_date = ?, preferred_time = ?,
                  special_instructions = ?, customer_phone = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ? AND status = ?`
	result, err := db.ExecContext(ctx, query,
		booking.Description, booking.Location, booking.PreferredDate, booking.PreferredTime,
		booking.SpecialInstructions, booking.CustomerPhone, time.Now(),
		booking.ID, fromVersion, models.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking request: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}
