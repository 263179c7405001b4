package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateJob(ctx context.Context, job *models.Job) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}

	now := time.Now()
	query := `INSERT INTO jobs (id, employer_id, title, description, worker_type, location, salary, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.WorkerType,
		job.Location, job.Salary, job.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

const jobColumns = `id, employer_id, title, description, worker_type, location, salary, status, created_at, updated_at`

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.WorkerType,
		&j.Location, &j.Salary, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (db *DB) GetJob(ctx context.Context, id string) (*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	job, err := scanJob(db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (db *DB) ListOpenJobs(ctx context.Context) ([]*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, models.JobStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (db *DB) ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE employer_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (db *DB) CloseJob(ctx context.Context, id, employerID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND employer_id = ?`
	result, err := db.ExecContext(ctx, query, models.JobStatusClosed, time.Now(), id, employerID)
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateApplication records one application per worker per job.
func (db *DB) CreateApplication(ctx context.Context, app *models.Application) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}

	now := time.Now()
	query := `INSERT INTO applications (id, job_id, worker_id, message, status, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, app.ID, app.JobID, app.WorkerID, app.Message, app.Status, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	app.CreatedAt = now
	return nil
}

func (db *DB) ListApplicationsByJob(ctx context.Context, jobID string) ([]*models.Application, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT id, job_id, worker_id, message, status, created_at
              FROM applications WHERE job_id = ? ORDER BY created_at ASC`
	rows, err := db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Message, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}
