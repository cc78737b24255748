package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/metrics"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// UpdateAppointmentInput replaces date, time and comment. A nil Status keeps
// the current one.
type UpdateAppointmentInput struct {
	Date    string
	Time    string
	Status  *domain.Status
	Comment string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache domain.CalendarCache
	now   Clock
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache domain.CalendarCache,
	now Clock,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		cache: cacheOrNop(cache),
		now:   clockOrSystem(now),
	}
}

// Execute commits the new slot, comment and status together or not at all.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	slot, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateComment(in.Comment); err != nil {
		return nil, err
	}

	var (
		ap      *models.Appointment
		from    domain.Status
		changed bool
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status

		taken, err := tx.HasConflict(ctx, slot, &current.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrConflict
		}

		if in.Status != nil && *in.Status != current.Status {
			changed, err = domain.ChangeStatus(current, *in.Status, uc.now())
			if err != nil {
				return err
			}
		}

		current.Date = slot.Date
		current.Time = slot.Time
		current.Comment = in.Comment

		if err := tx.Update(ctx, current); err != nil {
			return err
		}

		ap = current
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.SchedulingConflicts.Inc()
			dispatch(uc.audit, audit.ActionAppointmentConflict, id, map[string]any{
				"date": slot.Date,
				"time": slot.Time,
			})
		}
		return nil, err
	}

	meta := map[string]any{
		"date": ap.Date,
		"time": ap.Time,
	}
	if changed {
		metrics.RecordTransition(from.String(), ap.Status.String())
		meta["from"] = from.String()
		meta["to"] = ap.Status.String()
	}

	uc.cache.Invalidate(ctx)
	dispatch(uc.audit, audit.ActionAppointmentUpdated, ap.ID, meta)

	return ap, nil
}
