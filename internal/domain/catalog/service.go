// Package catalog holds the rules for the services offered to clients.
package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

var (
	ErrNotFound   = httperr.NotFoundErr("service_not_found", "Service not found.")
	ErrInactive   = httperr.Validation("service_inactive", "Service is not active.")
	ErrHasPending = httperr.New(
		httperr.KindReferentialRestriction,
		"service_has_pending_appointments",
		"Service has pending appointments and cannot be deactivated.",
	)
)

var maxPrice = decimal.New(1, 8)

type Fields struct {
	Name        string
	Description string
	DurationMin int
	Price       decimal.Decimal
}

func (f Fields) Normalize() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Price = f.Price.Round(2)
	return f
}

func (f Fields) Validate() error {
	if n := utf8.RuneCountInString(f.Name); n < 3 || n > 100 {
		return httperr.Validation("invalid_name", "Name must have between 3 and 100 characters.")
	}
	if n := utf8.RuneCountInString(f.Description); n < 1 || n > 100 {
		return httperr.Validation("invalid_description", "Description must have between 1 and 100 characters.")
	}
	if f.DurationMin <= 0 {
		return httperr.Validation("invalid_duration", "Duration must be greater than zero.")
	}
	if !f.Price.IsPositive() || f.Price.GreaterThanOrEqual(maxPrice) {
		return httperr.Validation("invalid_price", "Price must be greater than zero.")
	}
	return nil
}

func (f Fields) Apply(s *models.Service) {
	s.Name = f.Name
	s.Description = f.Description
	s.DurationMin = f.DurationMin
	s.Price = f.Price
}

// ParseActiveFilter maps ?status=active|inactive to a filter; anything else lists all.
func ParseActiveFilter(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		v := true
		return &v
	case "inactive":
		v := false
		return &v
	default:
		return nil
	}
}

type Repository interface {
	Create(ctx context.Context, s *models.Service) error
	Update(ctx context.Context, s *models.Service) error

	Get(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, active *bool) ([]models.Service, error)

	HasPendingAppointments(ctx context.Context, id uint) (bool, error)
}
