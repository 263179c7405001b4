package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rozgaarsetu/internal/models"
)

// UpsertUser creates or refreshes a profile keyed by the auth subject id.
func (db *DB) UpsertUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	skills, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	now := time.Now()
	query := `INSERT INTO users (id, full_name, role, phone, location, bio, skills,
                  experience_years, min_price, telegram_chat_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                  full_name = excluded.full_name,
                  role = excluded.role,
                  phone = excluded.phone,
                  location = excluded.location,
                  bio = excluded.bio,
                  skills = excluded.skills,
                  experience_years = excluded.experience_years,
                  min_price = excluded.min_price,
                  telegram_chat_id = excluded.telegram_chat_id,
                  updated_at = excluded.updated_at`
	_, err = db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Role, user.Phone, user.Location, user.Bio, string(skills),
		user.ExperienceYears, user.MinPrice, user.TelegramChatID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	user.UpdatedAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var skills string
	err := row.Scan(
		&u.ID, &u.FullName, &u.Role, &u.Phone, &u.Location, &u.Bio, &skills,
		&u.ExperienceYears, &u.MinPrice, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills != "" {
		if err := json.Unmarshal([]byte(skills), &u.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	return &u, nil
}

const userColumns = `id, full_name, role, phone, location, bio, skills,
                     experience_years, min_price, telegram_chat_id, created_at, updated_at`

func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetWorkers lists worker profiles, newest first.
func (db *DB) GetWorkers(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE role = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, models.RoleWorker)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, u)
	}
	return workers, rows.Err()
}

func (db *DB) SetTelegramChatID(ctx context.Context, userID string, chatID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET telegram_chat_id = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, chatID, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set telegram chat id: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
