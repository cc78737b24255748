package appointment

import (
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

const MaxCommentLength = 250

var (
	ErrNotFound = httperr.NotFoundErr("appointment_not_found", "Appointment not found.")
	ErrConflict = httperr.New(
		httperr.KindSchedulingConflict,
		"time_conflict",
		"An appointment is already booked for that date and time.",
	)
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus applies a validated transition to ap and stamps the change.
// On rejection ap is left untouched.
func ChangeStatus(ap *models.Appointment, requested Status, now time.Time) (bool, error) {
	changed, err := ValidateTransition(ap.Status, requested)
	if err != nil || !changed {
		return false, err
	}

	ap.Status = requested
	ap.StatusChangedAt = &now
	return true, nil
}

func ValidateComment(comment string) error {
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return httperr.Validation("comment_too_long", "Comment must be at most 250 characters.")
	}
	return nil
}

func SlotOf(ap *models.Appointment) Slot {
	return Slot{Date: ap.Date, Time: ap.Time}
}
