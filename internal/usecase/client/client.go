package client

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/client"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// EmailDomainCheck reports whether the email's domain can receive mail.
type EmailDomainCheck func(email string) bool

// ======================================================
// REGISTER
// ======================================================

type RegisterClient struct {
	repo        domain.Repository
	checkDomain EmailDomainCheck
	now         func() time.Time
}

func NewRegisterClient(
	repo domain.Repository,
	checkDomain EmailDomainCheck,
	now func() time.Time,
) *RegisterClient {
	if now == nil {
		now = time.Now
	}
	return &RegisterClient{repo: repo, checkDomain: checkDomain, now: now}
}

func (uc *RegisterClient) Execute(ctx context.Context, in domain.Fields) (*models.Client, error) {
	in = in.Normalize()
	if err := validate(in, uc.checkDomain); err != nil {
		return nil, err
	}

	taken, err := uc.repo.EmailExists(ctx, in.Email, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	c := &models.Client{RegisteredAt: domain.RegistrationTime(uc.now())}
	in.Apply(c)

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateClient struct {
	repo        domain.Repository
	checkDomain EmailDomainCheck
}

func NewUpdateClient(repo domain.Repository, checkDomain EmailDomainCheck) *UpdateClient {
	return &UpdateClient{repo: repo, checkDomain: checkDomain}
}

func (uc *UpdateClient) Execute(ctx context.Context, id uint, in domain.Fields) (*models.Client, error) {
	in = in.Normalize()
	if err := validate(in, uc.checkDomain); err != nil {
		return nil, err
	}

	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := uc.repo.EmailExists(ctx, in.Email, &c.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	in.Apply(c)
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteClient struct {
	repo domain.Repository
}

func NewDeleteClient(repo domain.Repository) *DeleteClient {
	return &DeleteClient{repo: repo}
}

func (uc *DeleteClient) Execute(ctx context.Context, id uint) error {
	if _, err := uc.repo.Get(ctx, id); err != nil {
		return err
	}

	has, err := uc.repo.HasAppointments(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return domain.ErrHasAppointments
	}

	return uc.repo.Delete(ctx, id)
}

// ======================================================
// READ
// ======================================================

type GetClient struct {
	repo domain.Repository
}

func NewGetClient(repo domain.Repository) *GetClient {
	return &GetClient{repo: repo}
}

func (uc *GetClient) Execute(ctx context.Context, id uint) (*models.Client, error) {
	return uc.repo.Get(ctx, id)
}

type ListResult struct {
	Clients    []models.Client
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

type ListClients struct {
	repo        domain.Repository
	defaultSize int
}

func NewListClients(repo domain.Repository, defaultSize int) *ListClients {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	return &ListClients{repo: repo, defaultSize: defaultSize}
}

func (uc *ListClients) Execute(ctx context.Context, q domain.ListQuery) (*ListResult, error) {
	q = q.Normalize(uc.defaultSize)

	clients, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Clients:    clients,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}

func validate(in domain.Fields, checkDomain EmailDomainCheck) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if checkDomain != nil && !checkDomain(in.Email) {
		return httperr.Validation("invalid_email_domain", "Email domain does not accept mail.")
	}
	return nil
}
