package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rozgaarsetu/internal/models"
)

// SeedCatalog loads categories and services idempotently. Existing rows keep
// their ids so bookings stay valid across restarts with an updated catalog
// file.
func (db *DB) SeedCatalog(ctx context.Context, categories []models.ServiceCategory, services []models.Service) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	catQuery := `INSERT INTO service_categories (id, name, description, icon)
                 VALUES (?, ?, ?, ?)
                 ON CONFLICT(id) DO UPDATE SET
                     name = excluded.name,
                     description = excluded.description,
                     icon = excluded.icon`
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, catQuery, c.ID, c.Name, c.Description, c.Icon); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
	}

	svcQuery := `INSERT INTO services (id, category_id, name, description, base_price, duration_minutes, created_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?)
                 ON CONFLICT(id) DO UPDATE SET
                     category_id = excluded.category_id,
                     name = excluded.name,
                     description = excluded.description,
                     base_price = excluded.base_price,
                     duration_minutes = excluded.duration_minutes`
	now := time.Now()
	for _, s := range services {
		if _, err := tx.ExecContext(ctx, svcQuery, s.ID, s.CategoryID, s.Name, s.Description, s.BasePrice, s.DurationMinutes, now); err != nil {
			return fmt.Errorf("failed to seed service %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

func (db *DB) ListCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.QueryContext(ctx, `SELECT id, name, description, icon FROM service_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.ServiceCategory
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (db *DB) ListServicesByCategory(ctx context.Context, categoryID string) ([]*models.Service, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT id, category_id, name, description, base_price, duration_minutes, created_at
              FROM services WHERE category_id = ? ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.BasePrice, &s.DurationMinutes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}

func (db *DB) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT id, category_id, name, description, base_price, duration_minutes, created_at
              FROM services WHERE id = ?`
	var s models.Service
	err := db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.BasePrice, &s.DurationMinutes, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &s, nil
}
