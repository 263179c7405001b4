package service

import (
	"context"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByCustomer(ctx context.Context, id string) ([]*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByWorker(ctx context.Context, id string) ([]*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) GetBookingsByDateRange(ctx context.Context, s, e time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) AppendNegotiationWithStatus(ctx context.Context, msg *models.NegotiationMessage, v int64, s string) error {
	return m.Called(ctx, msg, v, s).Error(0)
}
func (m *mockRepo) UpdateBookingStatusWithVersion(ctx context.Context, id string, v int64, s string) error {
	return m.Called(ctx, id, v, s).Error(0)
}
func (m *mockRepo) ConfirmBookingWithVersion(ctx context.Context, id string, v int64, p float64, at time.Time) error {
	return m.Called(ctx, id, v, p, at).Error(0)
}
func (m *mockRepo) CompleteBookingWithVersion(ctx context.Context, id string, v int64, at time.Time) error {
	return m.Called(ctx, id, v, at).Error(0)
}
func (m *mockRepo) UpdateBookingRequest(ctx context.Context, b *models.Booking, v int64) error {
	return m.Called(ctx, b, v).Error(0)
}
func (m *mockRepo) ListNegotiations(ctx context.Context, id string) ([]*models.NegotiationMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.NegotiationMessage), args.Error(1)
}
func (m *mockRepo) CountNegotiations(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockRepo) UpsertUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetWorkers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) SetTelegramChatID(ctx context.Context, id string, chatID int64) error {
	return m.Called(ctx, id, chatID).Error(0)
}
func (m *mockRepo) SeedCatalog(ctx context.Context, c []models.ServiceCategory, s []models.Service) error {
	return m.Called(ctx, c, s).Error(0)
}
func (m *mockRepo) ListCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ServiceCategory), args.Error(1)
}
func (m *mockRepo) ListServicesByCategory(ctx context.Context, id string) ([]*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}
func (m *mockRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *mockRepo) CreateJob(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}
func (m *mockRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}
func (m *mockRepo) ListOpenJobs(ctx context.Context) ([]*models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}
func (m *mockRepo) ListJobsByEmployer(ctx context.Context, id string) ([]*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Job), args.Error(1)
}
func (m *mockRepo) CloseJob(ctx context.Context, id, employerID string) error {
	return m.Called(ctx, id, employerID).Error(0)
}
func (m *mockRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockRepo) ListApplicationsByJob(ctx context.Context, id string) ([]*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

type mockWorker struct {
	mock.Mock
}

func (m *mockWorker) EnqueueTask(ctx context.Context, tt string, bid string, b *models.Booking, s string) error {
	return m.Called(ctx, tt, bid, b, s).Error(0)
}
