package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status = models.AppointmentStatus

const (
	StatusPending   = models.StatusPending
	StatusConfirmed = models.StatusConfirmed
	StatusCompleted = models.StatusCompleted
	StatusCancelled = models.StatusCancelled
)

func InitialStatus() Status {
	return StatusPending
}

// IsTerminal reports whether no transition may leave s.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// ValidateTransition decides whether current may move to requested.
// changed is false with a nil error when nothing needs to happen
// (Pending -> Pending, Confirmed -> Confirmed).
func ValidateTransition(current, requested Status) (changed bool, err error) {
	if !requested.Valid() {
		return false, httperr.Validation("invalid_status", "Unknown appointment status.")
	}

	if IsTerminal(current) {
		return false, invalidTransition(current, requested)
	}

	if current == requested {
		return false, nil
	}

	switch requested {
	case StatusConfirmed:
		if current == StatusPending {
			return true, nil
		}
	case StatusCancelled, StatusCompleted:
		if current == StatusPending || current == StatusConfirmed {
			return true, nil
		}
	}

	return false, invalidTransition(current, requested)
}

func invalidTransition(from, to Status) error {
	return httperr.New(
		httperr.KindInvalidTransition,
		"invalid_transition",
		fmt.Sprintf("Cannot change status from %s to %s.", from, to),
	)
}

// CalendarColor is the calendar widget color for a status.
func CalendarColor(s Status) string {
	switch s {
	case StatusCompleted:
		return "#28a745"
	case StatusCancelled:
		return "#dc3545"
	case StatusConfirmed:
		return "#ffc107"
	default:
		return "#0d6efd"
	}
}
