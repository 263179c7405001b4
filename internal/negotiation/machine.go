package negotiation

import (
	"rozgaarsetu/internal/models"
)

// Role identifies which side of a booking an actor is on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleNone     Role = ""
)

// Action is a lifecycle action requested by one of the parties.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionCounter  Action = "counter"
	ActionReject   Action = "reject"
	ActionConfirm  Action = "confirm"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
)

// RoleOf derives the caller's role by comparing the authenticated id to the
// booking's party ids. Role is always derived here, never taken from
// client-supplied state.
func RoleOf(senderID string, booking *models.Booking) Role {
	switch senderID {
	case booking.CustomerID:
		return RoleCustomer
	case booking.WorkerID:
		return RoleWorker
	default:
		return RoleNone
	}
}

type transition struct {
	to         string
	workerOnly bool
}

// transitions is the canonical machine. Customer- and worker-facing views
// project subsets of these statuses; legality is decided only here.
var transitions = map[string]map[Action]transition{
	models.StatusPending: {
		ActionAccept:  {to: models.StatusAccepted},
		ActionCounter: {to: models.StatusNegotiating},
		ActionReject:  {to: models.StatusCancelled},
	},
	models.StatusNegotiating: {
		ActionAccept:  {to: models.StatusAccepted},
		ActionCounter: {to: models.StatusNegotiating},
		ActionReject:  {to: models.StatusCancelled},
	},
	models.StatusAccepted: {
		ActionConfirm: {to: models.StatusConfirmed, workerOnly: true},
	},
	models.StatusConfirmed: {
		ActionStart: {to: models.StatusInProgress, workerOnly: true},
	},
	models.StatusInProgress: {
		ActionComplete: {to: models.StatusCompleted, workerOnly: true},
	},
	// cancelled and completed are absorbing: no transitions defined.
}

// Next validates an action against the booking's current status and the
// caller's identity and returns the resulting status. It returns ErrNotParty
// for outsiders and ErrInvalidTransition for actions the current status or
// the caller's role does not permit.
func Next(booking *models.Booking, senderID string, action Action) (string, error) {
	role := RoleOf(senderID, booking)
	if role == RoleNone {
		return "", ErrNotParty
	}

	byAction, ok := transitions[booking.Status]
	if !ok {
		return "", ErrInvalidTransition
	}
	tr, ok := byAction[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	if tr.workerOnly && role != RoleWorker {
		return "", ErrInvalidTransition
	}

	return tr.to, nil
}

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	return status == models.StatusCancelled || status == models.StatusCompleted
}

// CustomerView projects a canonical status onto the five statuses the
// customer screens display. The scheduling sub-states between acceptance and
// completion all read as "accepted" to the customer.
func CustomerView(status string) string {
	switch status {
	case models.StatusConfirmed, models.StatusInProgress:
		return models.StatusAccepted
	default:
		return status
	}
}

// WorkerView projects a canonical status onto the worker screens, which show
// the full lifecycle.
func WorkerView(status string) string {
	return status
}
