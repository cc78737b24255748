package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/domain/catalog"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/metrics"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  uint
	ServiceID uint
	Date      string
	Time      string
	Comment   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache domain.CalendarCache
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache domain.CalendarCache,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		cache: cacheOrNop(cache),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if in.ClientID == 0 || in.ServiceID == 0 {
		return nil, httperr.Validation("missing_client_or_service", "Client and service are required.")
	}

	slot, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateComment(in.Comment); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Client / service
	// --------------------------------------------------
	client, err := uc.repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, catalog.ErrInactive
	}

	// --------------------------------------------------
	// 3. Conflict check + insert
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:  client.ID,
		ServiceID: service.ID,
		Date:      slot.Date,
		Time:      slot.Time,
		Status:    domain.InitialStatus(),
		Comment:   in.Comment,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		taken, err := tx.HasConflict(ctx, slot, nil)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrConflict
		}
		return tx.Create(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.SchedulingConflicts.Inc()
			uc.audit.Dispatch(audit.Event{
				Action:   audit.ActionAppointmentConflict,
				Entity:   audit.EntityAppointment,
				Metadata: map[string]any{
					"date":       slot.Date,
					"time":       slot.Time,
					"client_id":  client.ID,
					"service_id": service.ID,
				},
			})
		}
		return nil, err
	}

	ap.Client = *client
	ap.Service = *service

	// --------------------------------------------------
	// 4. Side effects
	// --------------------------------------------------
	metrics.AppointmentsCreated.Inc()
	uc.cache.Invalidate(ctx)
	dispatch(uc.audit, audit.ActionAppointmentCreated, ap.ID, map[string]any{
		"date": ap.Date,
		"time": ap.Time,
	})

	return ap, nil
}
