package service

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/negotiation"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService() (*BookingService, *mockRepo, *mockEventBus, *mockWorker) {
	repo := new(mockRepo)
	bus := new(mockEventBus)
	worker := new(mockWorker)
	logger := zerolog.New(io.Discard)
	return NewBookingService(repo, bus, worker, &logger), repo, bus, worker
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:           "bk-1",
		CustomerID:   "cust-1",
		WorkerID:     "work-1",
		ServiceID:    "svc-1",
		OfferedPrice: 500,
		Status:       models.StatusPending,
		Version:      1,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, repo, bus, worker := newTestService()
	ctx := context.Background()

	t.Run("DefaultsToBasePrice", func(t *testing.T) {
		booking := &models.Booking{CustomerID: "cust-1", WorkerID: "work-1", ServiceID: "svc-1"}

		repo.On("GetService", ctx, "svc-1").Return(&models.Service{ID: "svc-1", BasePrice: 300}, nil).Once()
		repo.On("CreateBooking", ctx, booking).Return(nil).Once()
		bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
		worker.On("EnqueueTask", ctx, "upsert", mock.Anything, mock.Anything, "").Return(nil).Once()

		err := svc.CreateBooking(ctx, "cust-1", booking)
		require.NoError(t, err)
		assert.Equal(t, 300.0, booking.OfferedPrice)
		repo.AssertExpectations(t)
	})

	t.Run("OnlyCustomerMayCreate", func(t *testing.T) {
		booking := &models.Booking{CustomerID: "cust-1", WorkerID: "work-1", ServiceID: "svc-1"}
		err := svc.CreateBooking(ctx, "work-1", booking)
		assert.ErrorIs(t, err, negotiation.ErrNotParty)
	})

	t.Run("SelfBookingRejected", func(t *testing.T) {
		booking := &models.Booking{CustomerID: "cust-1", WorkerID: "cust-1", ServiceID: "svc-1"}
		err := svc.CreateBooking(ctx, "cust-1", booking)
		assert.ErrorIs(t, err, negotiation.ErrNotParty)
	})
}

func TestSubmitNegotiation(t *testing.T) {
	ctx := context.Background()
	price := 650.0

	t.Run("CounterOfferMovesToNegotiating", func(t *testing.T) {
		svc, repo, bus, worker := newTestService()
		booking := pendingBooking()

		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()
		repo.On("AppendNegotiationWithStatus", ctx, mock.Anything, int64(1), models.StatusNegotiating).Return(nil).Once()
		bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
		worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusNegotiating).Return(nil).Once()

		msg, err := svc.SubmitNegotiation(ctx, "work-1", "bk-1", negotiation.Submission{
			MessageType:   models.MessageTypePriceOffer,
			ProposedPrice: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, models.MessageTypePriceOffer, msg.MessageType)
		assert.Equal(t, "work-1", msg.SenderID)
		repo.AssertExpectations(t)
	})

	t.Run("OutsiderRejected", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetBooking", ctx, "bk-1").Return(pendingBooking(), nil).Once()

		_, err := svc.SubmitNegotiation(ctx, "stranger", "bk-1", negotiation.Submission{
			MessageType: models.MessageTypeMessage, Message: "hi",
		})
		assert.ErrorIs(t, err, negotiation.ErrNotParty)
	})

	t.Run("TerminalStatusRejected", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		booking := pendingBooking()
		booking.Status = models.StatusCancelled
		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()

		_, err := svc.SubmitNegotiation(ctx, "cust-1", "bk-1", negotiation.Submission{
			MessageType:   models.MessageTypePriceOffer,
			ProposedPrice: &price,
		})
		assert.ErrorIs(t, err, negotiation.ErrInvalidTransition)
	})

	t.Run("EmptySubmissionRejectedBeforeAnyRead", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.SubmitNegotiation(ctx, "cust-1", "bk-1", negotiation.Submission{
			MessageType: models.MessageTypeMessage,
		})
		assert.ErrorIs(t, err, negotiation.ErrEmptySubmission)
	})

	t.Run("ConflictRetriesOnceWithFreshState", func(t *testing.T) {
		svc, repo, bus, worker := newTestService()
		stale := pendingBooking()
		fresh := pendingBooking()
		fresh.Status = models.StatusNegotiating
		fresh.Version = 2

		repo.On("GetBooking", ctx, "bk-1").Return(stale, nil).Once()
		repo.On("AppendNegotiationWithStatus", ctx, mock.Anything, int64(1), models.StatusNegotiating).
			Return(database.ErrConcurrentModification).Once()
		repo.On("GetBooking", ctx, "bk-1").Return(fresh, nil).Once()
		repo.On("AppendNegotiationWithStatus", ctx, mock.Anything, int64(2), models.StatusNegotiating).Return(nil).Once()
		bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
		worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusNegotiating).Return(nil).Once()

		_, err := svc.SubmitNegotiation(ctx, "cust-1", "bk-1", negotiation.Submission{
			MessageType:   models.MessageTypePriceOffer,
			ProposedPrice: &price,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("SecondConflictSurfaces", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetBooking", ctx, "bk-1").Return(pendingBooking(), nil).Twice()
		repo.On("AppendNegotiationWithStatus", ctx, mock.Anything, int64(1), models.StatusNegotiating).
			Return(database.ErrConcurrentModification).Twice()

		_, err := svc.SubmitNegotiation(ctx, "cust-1", "bk-1", negotiation.Submission{
			MessageType:   models.MessageTypePriceOffer,
			ProposedPrice: &price,
		})
		assert.ErrorIs(t, err, database.ErrConcurrentModification)
	})
}

func TestResolveBookingAcceptCarriesEffectivePrice(t *testing.T) {
	svc, repo, bus, worker := newTestService()
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.StatusNegotiating
	counter := 650.0
	ledger := []*models.NegotiationMessage{
		{BookingID: "bk-1", SenderID: "work-1", MessageType: models.MessageTypePriceOffer, ProposedPrice: &counter},
	}

	accepted := pendingBooking()
	accepted.Status = models.StatusAccepted
	accepted.Version = 2

	// Price lookup, then the accept transition, then the final read.
	repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Twice()
	repo.On("ListNegotiations", ctx, "bk-1").Return(ledger, nil).Once()
	repo.On("AppendNegotiationWithStatus", ctx, mock.MatchedBy(func(m *models.NegotiationMessage) bool {
		return m.MessageType == models.MessageTypeAcceptance && m.ProposedPrice != nil && *m.ProposedPrice == 650
	}), int64(1), models.StatusAccepted).Return(nil).Once()
	repo.On("GetBooking", ctx, "bk-1").Return(accepted, nil).Once()
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
	worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusAccepted).Return(nil).Once()

	result, err := svc.ResolveBooking(ctx, "cust-1", "bk-1", true, "deal")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, result.Status)
	repo.AssertExpectations(t)
}

func TestConfirmBooking(t *testing.T) {
	ctx := context.Background()
	scheduledAt := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)

	t.Run("WorkerLocksEffectivePrice", func(t *testing.T) {
		svc, repo, bus, worker := newTestService()
		booking := pendingBooking()
		booking.Status = models.StatusAccepted
		counter := 650.0
		ledger := []*models.NegotiationMessage{
			{MessageType: models.MessageTypePriceOffer, ProposedPrice: &counter},
		}

		confirmed := pendingBooking()
		confirmed.Status = models.StatusConfirmed
		confirmed.Version = 2

		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()
		repo.On("ListNegotiations", ctx, "bk-1").Return(ledger, nil).Once()
		repo.On("ConfirmBookingWithVersion", ctx, "bk-1", int64(1), 650.0, scheduledAt).Return(nil).Once()
		repo.On("GetBooking", ctx, "bk-1").Return(confirmed, nil).Once()
		bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
		worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusConfirmed).Return(nil).Once()

		result, err := svc.ConfirmBooking(ctx, "work-1", "bk-1", scheduledAt)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, result.Status)
		repo.AssertExpectations(t)
	})

	t.Run("CustomerMayNotConfirm", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		booking := pendingBooking()
		booking.Status = models.StatusAccepted
		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()

		_, err := svc.ConfirmBooking(ctx, "cust-1", "bk-1", scheduledAt)
		assert.ErrorIs(t, err, negotiation.ErrInvalidTransition)
	})
}

func TestStartAndCompleteBooking(t *testing.T) {
	ctx := context.Background()

	svc, repo, bus, worker := newTestService()
	booking := pendingBooking()
	booking.Status = models.StatusConfirmed

	started := pendingBooking()
	started.Status = models.StatusInProgress
	started.Version = 2

	repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()
	repo.On("UpdateBookingStatusWithVersion", ctx, "bk-1", int64(1), models.StatusInProgress).Return(nil).Once()
	repo.On("GetBooking", ctx, "bk-1").Return(started, nil).Once()
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
	worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusInProgress).Return(nil).Once()

	result, err := svc.StartBooking(ctx, "work-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, result.Status)

	completed := pendingBooking()
	completed.Status = models.StatusCompleted
	completed.Version = 3

	repo.On("GetBooking", ctx, "bk-1").Return(started, nil).Once()
	repo.On("CompleteBookingWithVersion", ctx, "bk-1", int64(2), mock.AnythingOfType("time.Time")).Return(nil).Once()
	repo.On("GetBooking", ctx, "bk-1").Return(completed, nil).Once()
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Once()
	worker.On("EnqueueTask", ctx, "update_status", "bk-1", mock.Anything, models.StatusCompleted).Return(nil).Once()

	result, err = svc.CompleteBooking(ctx, "work-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.Status)
	repo.AssertExpectations(t)
}

func TestGetEffectivePrice(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	booking := pendingBooking()

	t.Run("FallsBackToOfferedPrice", func(t *testing.T) {
		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()
		repo.On("ListNegotiations", ctx, "bk-1").Return([]*models.NegotiationMessage{}, nil).Once()

		price, err := svc.GetEffectivePrice(ctx, "cust-1", "bk-1")
		require.NoError(t, err)
		assert.Equal(t, 500.0, price)
	})

	t.Run("PartyOnly", func(t *testing.T) {
		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()

		_, err := svc.GetEffectivePrice(ctx, "stranger", "bk-1")
		assert.ErrorIs(t, err, negotiation.ErrNotParty)
	})
}

func TestGetBookingProjection(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.StatusInProgress

	// The customer sees the collapsed status; the worker sees the canonical
	// one; the stored booking is untouched.
	repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Twice()

	forCustomer, err := svc.GetBooking(ctx, "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, forCustomer.Status)

	forWorker, err := svc.GetBooking(ctx, "work-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, forWorker.Status)

	assert.Equal(t, models.StatusInProgress, booking.Status)
}

func TestListBookingsMergesBothSides(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	asCustomer := []*models.Booking{{ID: "bk-1", CustomerID: "u-1", WorkerID: "w-1", Status: models.StatusConfirmed}}
	asWorker := []*models.Booking{{ID: "bk-2", CustomerID: "c-2", WorkerID: "u-1", Status: models.StatusConfirmed}}

	repo.On("GetBookingsByCustomer", ctx, "u-1").Return(asCustomer, nil).Once()
	repo.On("GetBookingsByWorker", ctx, "u-1").Return(asWorker, nil).Once()

	bookings, err := svc.ListBookings(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	// Customer-side booking is projected, worker-side is canonical.
	assert.Equal(t, models.StatusAccepted, bookings[0].Status)
	assert.Equal(t, models.StatusConfirmed, bookings[1].Status)
}

func TestCreateBookingRejectsZeroPrice(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	booking := &models.Booking{CustomerID: "cust-1", WorkerID: "work-1", ServiceID: "svc-free"}
	repo.On("GetService", ctx, "svc-free").Return(&models.Service{ID: "svc-free", BasePrice: 0}, nil).Once()

	err := svc.CreateBooking(ctx, "cust-1", booking)
	assert.ErrorIs(t, err, negotiation.ErrInvalidPrice)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestUpdateBookingRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("CustomerEditsPendingRequest", func(t *testing.T) {
		svc, repo, _, worker := newTestService()
		booking := pendingBooking()

		edited := pendingBooking()
		edited.Description = "leaking kitchen tap"
		edited.Version = 2

		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()
		repo.On("UpdateBookingRequest", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.ID == "bk-1" && b.Description == "leaking kitchen tap"
		}), int64(1)).Return(nil).Once()
		repo.On("GetBooking", ctx, "bk-1").Return(edited, nil).Once()
		worker.On("EnqueueTask", ctx, "upsert", "bk-1", mock.Anything, "").Return(nil).Once()

		result, err := svc.UpdateBookingRequest(ctx, "cust-1", "bk-1", &models.Booking{Description: "leaking kitchen tap"})
		require.NoError(t, err)
		assert.Equal(t, "leaking kitchen tap", result.Description)
		repo.AssertExpectations(t)
	})

	t.Run("FrozenAfterWorkerResponse", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		booking := pendingBooking()
		booking.Status = models.StatusNegotiating
		repo.On("GetBooking", ctx, "bk-1").Return(booking, nil).Once()

		_, err := svc.UpdateBookingRequest(ctx, "cust-1", "bk-1", &models.Booking{Description: "x"})
		assert.ErrorIs(t, err, negotiation.ErrInvalidTransition)
	})

	t.Run("CustomerOnly", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("GetBooking", ctx, "bk-1").Return(pendingBooking(), nil).Once()

		_, err := svc.UpdateBookingRequest(ctx, "work-1", "bk-1", &models.Booking{Description: "x"})
		assert.ErrorIs(t, err, negotiation.ErrNotParty)
	})
}

func TestTransientReadRetried(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	busy := fmt.Errorf("failed to get booking: %w", context.DeadlineExceeded)
	repo.On("GetBooking", ctx, "bk-1").Return(nil, busy).Once()
	repo.On("GetBooking", ctx, "bk-1").Return(pendingBooking(), nil).Once()

	booking, err := svc.GetBooking(ctx, "cust-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", booking.ID)
	repo.AssertExpectations(t)
}

func TestTransientReadExhaustionSurfaces(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	busy := fmt.Errorf("failed to get booking: %w", context.DeadlineExceeded)
	repo.On("GetBooking", ctx, "bk-1").Return(nil, busy).Times(transientRetries + 1)

	_, err := svc.GetBooking(ctx, "cust-1", "bk-1")
	require.Error(t, err)
	assert.True(t, database.IsTransient(err))
	repo.AssertExpectations(t)
}
