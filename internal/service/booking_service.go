package service

import (
	"context"
	"errors"
	"time"

	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/events"
	"rozgaarsetu/internal/metrics"
	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/negotiation"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo         domain.Repository
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:         repo,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, actorID string, booking *models.Booking) error {
	if actorID != booking.CustomerID {
		return negotiation.ErrNotParty
	}
	if booking.CustomerID == booking.WorkerID {
		return negotiation.ErrNotParty
	}

	svc, err := s.repo.GetService(ctx, booking.ServiceID)
	if err != nil {
		return err
	}
	if booking.OfferedPrice <= 0 {
		booking.OfferedPrice = svc.BasePrice
	}
	// A zero opening offer would make every later acceptance fail price
	// validation, so reject it up front.
	if booking.OfferedPrice <= 0 {
		return negotiation.ErrInvalidPrice
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingCreated, booking, actorID, nil, "")
	s.enqueueSync(ctx, booking, "upsert")

	return nil
}

// loadBooking reads a booking with transient-failure retry. All request-path
// reads go through here so a busy store does not surface as a hard error.
func (s *BookingService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking *models.Booking
	err := retryTransient(ctx, func() error {
		var err error
		booking, err = s.repo.GetBooking(ctx, bookingID)
		return err
	})
	return booking, err
}

func (s *BookingService) loadLedger(ctx context.Context, bookingID string) ([]*models.NegotiationMessage, error) {
	var messages []*models.NegotiationMessage
	err := retryTransient(ctx, func() error {
		var err error
		messages, err = s.repo.ListNegotiations(ctx, bookingID)
		return err
	})
	return messages, err
}

func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if negotiation.RoleOf(actorID, booking) == negotiation.RoleNone {
		return nil, negotiation.ErrNotParty
	}
	return s.projectFor(actorID, booking), nil
}

// ListBookings returns everything the actor participates in on either side.
func (s *BookingService) ListBookings(ctx context.Context, actorID string) ([]*models.Booking, error) {
	asCustomer, err := s.repo.GetBookingsByCustomer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	asWorker, err := s.repo.GetBookingsByWorker(ctx, actorID)
	if err != nil {
		return nil, err
	}

	bookings := make([]*models.Booking, 0, len(asCustomer)+len(asWorker))
	for _, b := range asCustomer {
		bookings = append(bookings, s.projectFor(actorID, b))
	}
	for _, b := range asWorker {
		bookings = append(bookings, s.projectFor(actorID, b))
	}
	return bookings, nil
}

// UpdateBookingRequest lets the customer edit the request fields while the
// booking is still pending. The first worker response freezes them.
func (s *BookingService) UpdateBookingRequest(ctx context.Context, actorID, bookingID string, update *models.Booking) (*models.Booking, error) {
	for attempt := 0; attempt < 2; attempt++ {
		booking, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if actorID != booking.CustomerID {
			return nil, negotiation.ErrNotParty
		}
		if booking.Status != models.StatusPending {
			return nil, negotiation.ErrInvalidTransition
		}

		update.ID = bookingID
		err = s.repo.UpdateBookingRequest(ctx, update, booking.Version)
		if errors.Is(err, database.ErrConcurrentModification) {
			metrics.IncVersionConflict()
			if attempt == 0 {
				continue
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}

		updated, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		s.enqueueSync(ctx, updated, "upsert")
		return s.projectFor(actorID, updated), nil
	}

	return nil, database.ErrConcurrentModification
}

// SubmitNegotiation validates the submission against the state machine,
// appends the ledger entry and applies the induced transition atomically.
// A lost version race is retried once against re-read state; the second
// conflict surfaces to the caller.
func (s *BookingService) SubmitNegotiation(ctx context.Context, actorID, bookingID string, sub negotiation.Submission) (*models.NegotiationMessage, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	messageType := sub.Classify()
	action := actionFor(messageType)

	var msg *models.NegotiationMessage
	for attempt := 0; attempt < 2; attempt++ {
		booking, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		newStatus, err := negotiation.Next(booking, actorID, action)
		if err != nil {
			metrics.IncTransition(string(action), "rejected")
			return nil, err
		}

		msg = &models.NegotiationMessage{
			BookingID:     bookingID,
			SenderID:      actorID,
			MessageType:   messageType,
			ProposedPrice: sub.ProposedPrice,
			ProposedDate:  sub.ProposedDate,
			ProposedTime:  sub.ProposedTime,
			Message:       sub.Message,
		}

		err = s.repo.AppendNegotiationWithStatus(ctx, msg, booking.Version, newStatus)
		if errors.Is(err, database.ErrConcurrentModification) {
			metrics.IncVersionConflict()
			if attempt == 0 {
				continue
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}

		metrics.IncTransition(string(action), "ok")
		booking.Status = newStatus
		s.publishEvent(eventFor(action), booking, actorID, sub.ProposedPrice, sub.Message)
		s.enqueueSync(ctx, booking, "update_status")
		return msg, nil
	}

	return nil, database.ErrConcurrentModification
}

// ResolveBooking is the accept/reject shorthand. Acceptance stamps the
// effective price into the ledger entry so the agreed amount is on record.
func (s *BookingService) ResolveBooking(ctx context.Context, actorID, bookingID string, accept bool, note string) (*models.Booking, error) {
	sub := negotiation.Submission{MessageType: models.MessageTypeRejection, Message: note}
	if accept {
		price, err := s.GetEffectivePrice(ctx, actorID, bookingID)
		if err != nil {
			return nil, err
		}
		sub = negotiation.Submission{MessageType: models.MessageTypeAcceptance, Message: note, ProposedPrice: &price}
	}

	if _, err := s.SubmitNegotiation(ctx, actorID, bookingID, sub); err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, actorID, bookingID)
}

// ConfirmBooking is worker-only: locks in the effective price as final and
// schedules the visit.
func (s *BookingService) ConfirmBooking(ctx context.Context, actorID, bookingID string, scheduledAt time.Time) (*models.Booking, error) {
	return s.lifecycleTransition(ctx, actorID, bookingID, negotiation.ActionConfirm,
		func(booking *models.Booking) error {
			messages, err := s.loadLedger(ctx, bookingID)
			if err != nil {
				return err
			}
			price := negotiation.EffectivePrice(booking, messages)
			return s.repo.ConfirmBookingWithVersion(ctx, bookingID, booking.Version, price, scheduledAt)
		})
}

func (s *BookingService) StartBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	return s.lifecycleTransition(ctx, actorID, bookingID, negotiation.ActionStart,
		func(booking *models.Booking) error {
			return s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, booking.Version, models.StatusInProgress)
		})
}

func (s *BookingService) CompleteBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	return s.lifecycleTransition(ctx, actorID, bookingID, negotiation.ActionComplete,
		func(booking *models.Booking) error {
			return s.repo.CompleteBookingWithVersion(ctx, bookingID, booking.Version, time.Now())
		})
}

func (s *BookingService) lifecycleTransition(ctx context.Context, actorID, bookingID string, action negotiation.Action, write func(*models.Booking) error) (*models.Booking, error) {
	for attempt := 0; attempt < 2; attempt++ {
		booking, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		if _, err := negotiation.Next(booking, actorID, action); err != nil {
			metrics.IncTransition(string(action), "rejected")
			return nil, err
		}

		err = write(booking)
		if errors.Is(err, database.ErrConcurrentModification) {
			metrics.IncVersionConflict()
			if attempt == 0 {
				continue
			}
			return nil, err
		}
		if err != nil {
			return nil, err
		}

		metrics.IncTransition(string(action), "ok")

		updated, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		s.publishEvent(eventFor(action), updated, actorID, nil, "")
		s.enqueueSync(ctx, updated, "update_status")
		return updated, nil
	}

	return nil, database.ErrConcurrentModification
}

// GetEffectivePrice replays the ledger; the price is always derived, never
// cached or stored mid-negotiation.
func (s *BookingService) GetEffectivePrice(ctx context.Context, actorID, bookingID string) (float64, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if negotiation.RoleOf(actorID, booking) == negotiation.RoleNone {
		return 0, negotiation.ErrNotParty
	}

	messages, err := s.loadLedger(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return negotiation.EffectivePrice(booking, messages), nil
}

func (s *BookingService) ListNegotiations(ctx context.Context, actorID, bookingID string) ([]*models.NegotiationMessage, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if negotiation.RoleOf(actorID, booking) == negotiation.RoleNone {
		return nil, negotiation.ErrNotParty
	}
	return s.loadLedger(ctx, bookingID)
}

// projectFor renders the status for the actor's side of the booking. The
// stored status is always canonical; only the returned copy is projected.
func (s *BookingService) projectFor(actorID string, booking *models.Booking) *models.Booking {
	out := *booking
	if negotiation.RoleOf(actorID, booking) == negotiation.RoleCustomer {
		out.Status = negotiation.CustomerView(booking.Status)
	}
	return &out
}

func actionFor(messageType string) negotiation.Action {
	switch messageType {
	case models.MessageTypeAcceptance:
		return negotiation.ActionAccept
	case models.MessageTypeRejection:
		return negotiation.ActionReject
	default:
		return negotiation.ActionCounter
	}
}

func eventFor(action negotiation.Action) string {
	switch action {
	case negotiation.ActionAccept:
		return events.EventBookingAccepted
	case negotiation.ActionReject:
		return events.EventBookingCancelled
	case negotiation.ActionConfirm:
		return events.EventBookingConfirmed
	case negotiation.ActionStart:
		return events.EventBookingStarted
	case negotiation.ActionComplete:
		return events.EventBookingCompleted
	default:
		return events.EventOfferSubmitted
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID string, proposedPrice *float64, note string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		WorkerID:      booking.WorkerID,
		ServiceID:     booking.ServiceID,
		Status:        booking.Status,
		ActorID:       actorID,
		ProposedPrice: proposedPrice,
		Note:          note,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, booking *models.Booking, taskType string) {
	if s.sheetsWorker == nil {
		return
	}

	var status string
	if taskType == "update_status" {
		status = booking.Status
	}

	if err := s.sheetsWorker.EnqueueTask(ctx, taskType, booking.ID, booking, status); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}
