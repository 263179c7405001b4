package domain

import (
	"context"
	"time"

	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/negotiation"
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByCustomer(ctx context.Context, customerID string) ([]*models.Booking, error)
	GetBookingsByWorker(ctx context.Context, workerID string) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	AppendNegotiationWithStatus(ctx context.Context, msg *models.NegotiationMessage, fromVersion int64, newStatus string) error
	UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status string) error
	ConfirmBookingWithVersion(ctx context.Context, id string, fromVersion int64, finalPrice float64, scheduledAt time.Time) error
	CompleteBookingWithVersion(ctx context.Context, id string, fromVersion int64, completedAt time.Time) error
	UpdateBookingRequest(ctx context.Context, booking *models.Booking, fromVersion int64) error
	ListNegotiations(ctx context.Context, bookingID string) ([]*models.NegotiationMessage, error)
	CountNegotiations(ctx context.Context, bookingID string) (int64, error)

	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetWorkers(ctx context.Context) ([]*models.User, error)
	SetTelegramChatID(ctx context.Context, userID string, chatID int64) error

	SeedCatalog(ctx context.Context, categories []models.ServiceCategory, services []models.Service) error
	ListCategories(ctx context.Context) ([]*models.ServiceCategory, error)
	ListServicesByCategory(ctx context.Context, categoryID string) ([]*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListOpenJobs(ctx context.Context) ([]*models.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error)
	CloseJob(ctx context.Context, id, employerID string) error
	CreateApplication(ctx context.Context, app *models.Application) error
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*models.Application, error)
}

// SessionRepository caches short-lived per-user state and request counters.
// Backed by redis in production, by an in-process map when redis is down.
type SessionRepository interface {
	GetSession(ctx context.Context, userID string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, userID string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID string, status string) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID string, booking *models.Booking, status string) error
}

type Notifier interface {
	NotifyUser(ctx context.Context, userID string, text string)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actorID string, booking *models.Booking) error
	GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actorID string) ([]*models.Booking, error)
	UpdateBookingRequest(ctx context.Context, actorID, bookingID string, update *models.Booking) (*models.Booking, error)
	SubmitNegotiation(ctx context.Context, actorID, bookingID string, sub negotiation.Submission) (*models.NegotiationMessage, error)
	ResolveBooking(ctx context.Context, actorID, bookingID string, accept bool, note string) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, actorID, bookingID string, scheduledAt time.Time) (*models.Booking, error)
	StartBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error)
	GetEffectivePrice(ctx context.Context, actorID, bookingID string) (float64, error)
	ListNegotiations(ctx context.Context, actorID, bookingID string) ([]*models.NegotiationMessage, error)
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*models.ServiceCategory, error)
	ListServices(ctx context.Context, categoryID string) ([]*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
}

type UserService interface {
	SaveProfile(ctx context.Context, user *models.User) error
	GetProfile(ctx context.Context, id string) (*models.User, error)
	FindWorkers(ctx context.Context, skill string) ([]*models.User, error)
}

type JobService interface {
	PostJob(ctx context.Context, actorID string, job *models.Job) error
	ListOpenJobs(ctx context.Context) ([]*models.Job, error)
	ListMyJobs(ctx context.Context, employerID string) ([]*models.Job, error)
	RankJobsForWorker(ctx context.Context, workerID string) ([]*models.RankedJob, error)
	Apply(ctx context.Context, workerID, jobID, message string) (*models.Application, error)
	ListApplications(ctx context.Context, actorID, jobID string) ([]*models.Application, error)
	CloseJob(ctx context.Context, actorID, jobID string) error
}
