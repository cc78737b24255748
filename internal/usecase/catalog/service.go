package catalog

import (
	"context"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/catalog"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// ======================================================
// CREATE
// ======================================================

type CreateService struct {
	repo domain.Repository
}

func NewCreateService(repo domain.Repository) *CreateService {
	return &CreateService{repo: repo}
}

// Execute stores a new service; active defaults to true.
func (uc *CreateService) Execute(
	ctx context.Context,
	in domain.Fields,
	active *bool,
) (*models.Service, error) {

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s := &models.Service{Active: true}
	if active != nil {
		s.Active = *active
	}
	in.Apply(s)

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateService struct {
	repo domain.Repository
}

func NewUpdateService(repo domain.Repository) *UpdateService {
	return &UpdateService{repo: repo}
}

// Execute replaces the service fields. Turning a service off goes through the
// same pending-appointment rule as Deactivate.
func (uc *UpdateService) Execute(
	ctx context.Context,
	id uint,
	in domain.Fields,
	active *bool,
) (*models.Service, error) {

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if active != nil && s.Active && !*active {
		if err := assertNoPending(ctx, uc.repo, id); err != nil {
			return nil, err
		}
	}

	in.Apply(s)
	if active != nil {
		s.Active = *active
	}

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ======================================================
// DEACTIVATE
// ======================================================

type DeactivateService struct {
	repo domain.Repository
}

func NewDeactivateService(repo domain.Repository) *DeactivateService {
	return &DeactivateService{repo: repo}
}

// Execute is a logical delete; services are never removed.
func (uc *DeactivateService) Execute(ctx context.Context, id uint) (*models.Service, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.Active {
		return s, nil
	}

	if err := assertNoPending(ctx, uc.repo, id); err != nil {
		return nil, err
	}

	s.Active = false
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ======================================================
// READ
// ======================================================

type GetService struct {
	repo domain.Repository
}

func NewGetService(repo domain.Repository) *GetService {
	return &GetService{repo: repo}
}

func (uc *GetService) Execute(ctx context.Context, id uint) (*models.Service, error) {
	return uc.repo.Get(ctx, id)
}

type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

func (uc *ListServices) Execute(ctx context.Context, active *bool) ([]models.Service, error) {
	return uc.repo.List(ctx, active)
}

func assertNoPending(ctx context.Context, repo domain.Repository, id uint) error {
	has, err := repo.HasPendingAppointments(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return domain.ErrHasPending
	}
	return nil
}
