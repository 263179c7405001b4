package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rozgaarsetu/internal/config"
	"rozgaarsetu/internal/database"
	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/metrics"
	"rozgaarsetu/internal/models"
	"rozgaarsetu/internal/negotiation"
	"rozgaarsetu/internal/service"
)

// HTTPServer exposes the marketplace API over plain net/http.
type HTTPServer struct {
	cfg      config.APIConfig
	bookings domain.BookingService
	catalog  domain.CatalogService
	users    domain.UserService
	jobs     domain.JobService
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(cfg config.APIConfig, auth *JWTAuth, bookings domain.BookingService, catalog domain.CatalogService, users domain.UserService, jobs domain.JobService, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		catalog:  catalog,
		users:    users,
		jobs:     jobs,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealth)

	mux.HandleFunc("GET /api/v1/categories", srv.handleListCategories)
	mux.HandleFunc("GET /api/v1/categories/{id}/services", srv.handleListServices)
	mux.HandleFunc("GET /api/v1/services/{id}", srv.handleGetService)

	mux.HandleFunc("GET /api/v1/workers", srv.handleListWorkers)
	mux.HandleFunc("GET /api/v1/profile", srv.handleGetProfile)
	mux.HandleFunc("PUT /api/v1/profile", srv.handleSaveProfile)

	mux.HandleFunc("POST /api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("GET /api/v1/bookings", srv.handleListBookings)
	mux.HandleFunc("GET /api/v1/bookings/{id}", srv.handleGetBooking)
	mux.HandleFunc("PUT /api/v1/bookings/{id}", srv.handleUpdateBooking)
	mux.HandleFunc("GET /api/v1/bookings/{id}/negotiations", srv.handleListNegotiations)
	mux.HandleFunc("POST /api/v1/bookings/{id}/negotiations", srv.handleSubmitNegotiation)
	mux.HandleFunc("GET /api/v1/bookings/{id}/price", srv.handleEffectivePrice)
	mux.HandleFunc("POST /api/v1/bookings/{id}/resolve", srv.handleResolveBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/confirm", srv.handleConfirmBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/start", srv.handleStartBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/complete", srv.handleCompleteBooking)

	mux.HandleFunc("POST /api/v1/jobs", srv.handlePostJob)
	mux.HandleFunc("GET /api/v1/jobs", srv.handleListJobs)
	mux.HandleFunc("GET /api/v1/jobs/mine", srv.handleListMyJobs)
	mux.HandleFunc("GET /api/v1/jobs/feed", srv.handleJobFeed)
	mux.HandleFunc("POST /api/v1/jobs/{id}/applications", srv.handleApply)
	mux.HandleFunc("GET /api/v1/jobs/{id}/applications", srv.handleListApplications)
	mux.HandleFunc("POST /api/v1/jobs/{id}/close", srv.handleCloseJob)

	handler := srv.loggingMiddleware(auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the routing stack for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *HTTPServer) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalog.ListServices(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *HTTPServer) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.catalog.GetService(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	workers, err := s.users.FindWorkers(r.Context(), skill)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": workers})
}

func (s *HTTPServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), ActorID(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !decodeBody(w, r, &user) {
		return
	}
	user.ID = ActorID(r.Context())
	if strings.TrimSpace(user.FullName) == "" {
		writeError(w, http.StatusBadRequest, "full_name is required")
		return
	}

	if err := s.users.SaveProfile(r.Context(), &user); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var booking models.Booking
	if !decodeBody(w, r, &booking) {
		return
	}
	booking.CustomerID = ActorID(r.Context())
	if booking.WorkerID == "" {
		writeError(w, http.StatusBadRequest, "worker_id is required")
		return
	}
	if booking.ServiceID == "" {
		writeError(w, http.StatusBadRequest, "service_id is required")
		return
	}

	if err := s.bookings.CreateBooking(r.Context(), booking.CustomerID, &booking); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListBookings(r.Context(), ActorID(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookings.GetBooking(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var update models.Booking
	if !decodeBody(w, r, &update) {
		return
	}

	booking, err := s.bookings.UpdateBookingRequest(r.Context(), ActorID(r.Context()), r.PathValue("id"), &update)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListNegotiations(w http.ResponseWriter, r *http.Request) {
	messages, err := s.bookings.ListNegotiations(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *HTTPServer) handleSubmitNegotiation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageType   string   `json:"message_type"`
		Message       string   `json:"message"`
		ProposedPrice *float64 `json:"proposed_price"`
		ProposedDate  string   `json:"proposed_date"`
		ProposedTime  string   `json:"proposed_time"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	sub := negotiation.Submission{
		MessageType:   body.MessageType,
		Message:       body.Message,
		ProposedPrice: body.ProposedPrice,
		ProposedDate:  body.ProposedDate,
		ProposedTime:  body.ProposedTime,
	}
	msg, err := s.bookings.SubmitNegotiation(r.Context(), ActorID(r.Context()), r.PathValue("id"), sub)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *HTTPServer) handleEffectivePrice(w http.ResponseWriter, r *http.Request) {
	price, err := s.bookings.GetEffectivePrice(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"effective_price": price})
}

func (s *HTTPServer) handleResolveBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Accept bool   `json:"accept"`
		Note   string `json:"note"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.bookings.ResolveBooking(r.Context(), ActorID(r.Context()), r.PathValue("id"), body.Accept, body.Note)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ScheduledAt.IsZero() {
		writeError(w, http.StatusBadRequest, "scheduled_at is required")
		return
	}

	booking, err := s.bookings.ConfirmBooking(r.Context(), ActorID(r.Context()), r.PathValue("id"), body.ScheduledAt)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleStartBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookings.StartBooking(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCompleteBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.bookings.CompleteBooking(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if !decodeBody(w, r, &job) {
		return
	}
	if strings.TrimSpace(job.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := s.jobs.PostJob(r.Context(), ActorID(r.Context()), &job); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *HTTPServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.ListOpenJobs(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *HTTPServer) handleListMyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.ListMyJobs(r.Context(), ActorID(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *HTTPServer) handleJobFeed(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.jobs.RankJobsForWorker(r.Context(), ActorID(r.Context()))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": ranked})
}

func (s *HTTPServer) handleApply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	app, err := s.jobs.Apply(r.Context(), ActorID(r.Context()), r.PathValue("id"), body.Message)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *HTTPServer) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.jobs.ListApplications(r.Context(), ActorID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (s *HTTPServer) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.CloseJob(r.Context(), ActorID(r.Context()), r.PathValue("id")); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.JobStatusClosed})
}

func (s *HTTPServer) respondError(w http.ResponseWriter, err error) {
	status := httpStatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, negotiation.ErrNotParty):
		return http.StatusForbidden
	case errors.Is(err, negotiation.ErrInvalidTransition),
		errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, database.ErrDuplicateApplication),
		errors.Is(err, service.ErrJobClosed):
		return http.StatusConflict
	case errors.Is(err, negotiation.ErrEmptySubmission),
		errors.Is(err, negotiation.ErrInvalidPrice),
		errors.Is(err, negotiation.ErrUnknownMessageType):
		return http.StatusBadRequest
	case database.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
