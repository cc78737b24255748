package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/metrics"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

type ChangeAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache domain.CalendarCache
	now   Clock
}

func NewChangeAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache domain.CalendarCache,
	now Clock,
) *ChangeAppointmentStatus {
	return &ChangeAppointmentStatus{
		repo:  repo,
		audit: audit,
		cache: cacheOrNop(cache),
		now:   clockOrSystem(now),
	}
}

// Execute returns the appointment unchanged when the request is a no-op.
func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	id uint,
	status domain.Status,
) (*models.Appointment, error) {

	var (
		ap      *models.Appointment
		from    domain.Status
		changed bool
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		from = current.Status

		changed, err = domain.ChangeStatus(current, status, uc.now())
		if err != nil {
			return err
		}

		if changed {
			if err := tx.Update(ctx, current); err != nil {
				return err
			}
		}

		ap = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	metrics.RecordTransition(from.String(), ap.Status.String())
	uc.cache.Invalidate(ctx)
	dispatch(uc.audit, audit.ActionAppointmentStatusChanged, ap.ID, map[string]any{
		"from": from.String(),
		"to":   ap.Status.String(),
	})

	return ap, nil
}
