package service

import (
	"context"
	"errors"
	"fmt"

	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/negotiation"

	"github.com/rs/zerolog"
)

// ErrJobClosed is returned when a worker applies to a job that is no longer
// accepting applications.
var ErrJobClosed = errors.New("job is no longer open")

type JobService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewJobService(repo domain.Repository, logger *zerolog.Logger) *JobService {
	return &JobService{repo: repo, logger: logger}
}

func (s *JobService) PostJob(ctx context.Context, actorID string, job *models.Job) error {
	if job.Title == "" {
		return fmt.Errorf("job title is required")
	}
	job.EmployerID = actorID
	return s.repo.CreateJob(ctx, job)
}

func (s *JobService) ListOpenJobs(ctx context.Context) ([]*models.Job, error) {
	return s.repo.ListOpenJobs(ctx)
}

// ListMyJobs returns the employer's own postings, closed ones included.
func (s *JobService) ListMyJobs(ctx context.Context, employerID string) ([]*models.Job, error) {
	return s.repo.ListJobsByEmployer(ctx, employerID)
}

// RankJobsForWorker loads the worker profile and orders the open feed by
// skill, location and recency.
func (s *JobService) RankJobsForWorker(ctx context.Context, workerID string) ([]*models.RankedJob, error) {
	worker, err := s.repo.GetUser(ctx, workerID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.repo.ListOpenJobs(ctx)
	if err != nil {
		return nil, err
	}

	return RankJobs(jobs, worker), nil
}

func (s *JobService) Apply(ctx context.Context, workerID, jobID, message string) (*models.Application, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrJobClosed
	}
	if job.EmployerID == workerID {
		return nil, negotiation.ErrNotParty
	}

	app := &models.Application{
		JobID:    jobID,
		WorkerID: workerID,
		Message:  message,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications is employer-only: applicants are not shown each other.
func (s *JobService) ListApplications(ctx context.Context, actorID, jobID string) ([]*models.Application, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != actorID {
		return nil, negotiation.ErrNotParty
	}
	return s.repo.ListApplicationsByJob(ctx, jobID)
}

func (s *JobService) CloseJob(ctx context.Context, actorID, jobID string) error {
	return s.repo.CloseJob(ctx, jobID, actorID)
}
