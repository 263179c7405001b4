package models

// Booking lifecycle statuses. The first five are what customers see; the
// worker view additionally surfaces StatusConfirmed and StatusInProgress
// between acceptance and completion.
const (
	StatusPending     = "pending"
	StatusNegotiating = "negotiating"
	StatusAccepted    = "accepted"
	StatusConfirmed   = "confirmed"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
)

// Negotiation message types.
const (
	MessageTypeMessage    = "message"
	MessageTypePriceOffer = "price_offer"
	MessageTypeTimeChange = "time_change"
	MessageTypeAcceptance = "acceptance"
	MessageTypeRejection  = "rejection"
)

// Profile roles.
const (
	RoleCustomer = "customer"
	RoleWorker   = "worker"
	RoleEmployer = "employer"
)

// Job statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

const (
	// DefaultSessionTTL lifetime of a cached identity lookup in Redis.
	DefaultSessionTTL = 15 * 60

	// RateLimitRequests requests allowed per caller per window.
	RateLimitRequests = 30

	// RateLimitWindow limiter window in seconds.
	RateLimitWindow = 60

	// WorkerQueueSize size of the sync worker's in-memory queue.
	WorkerQueueSize = 128

	// StoreTimeoutSeconds bound on a single store round trip.
	StoreTimeoutSeconds = 5
)
