package client

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

var (
	ErrNotFound        = httperr.NotFoundErr("client_not_found", "Client not found.")
	ErrEmailTaken      = httperr.Validation("email_already_registered", "Email is already registered.")
	ErrHasAppointments = httperr.New(
		httperr.KindReferentialRestriction,
		"client_has_appointments",
		"Client has appointments and cannot be deleted.",
	)
)

// ===============================
// Listing
// ===============================

type Order string

const (
	OrderName           Order = "name"
	OrderNameDesc       Order = "name_desc"
	OrderRegistered     Order = "registered"
	OrderRegisteredDesc Order = "registered_desc"
)

const MaxPageSize = 100

var validate = validator.New()

// ParseOrder falls back to name ordering for empty or unknown values.
func ParseOrder(s string) Order {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderNameDesc, OrderRegistered, OrderRegisteredDesc:
		return o
	default:
		return OrderName
	}
}

type ListQuery struct {
	Order    Order
	Page     int
	PageSize int
}

// Normalize clamps page to >= 1 and page size to 1..MaxPageSize.
func (q ListQuery) Normalize(defaultSize int) ListQuery {
	if q.Order == "" {
		q.Order = OrderName
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ===============================
// Validations
// ===============================

type Fields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Normalize trims every field and lower-cases the email.
func (f Fields) Normalize() Fields {
	return Fields{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:     strings.TrimSpace(f.Phone),
	}
}

func (f Fields) Validate() error {
	if n := utf8.RuneCountInString(f.FirstName); n < 2 || n > 50 {
		return httperr.Validation("invalid_first_name", "First name must have between 2 and 50 characters.")
	}
	if n := utf8.RuneCountInString(f.LastName); n < 2 || n > 50 {
		return httperr.Validation("invalid_last_name", "Last name must have between 2 and 50 characters.")
	}
	if err := validate.Var(f.Email, "required,email,max=100"); err != nil {
		return httperr.Validation("invalid_email", "A valid email is required.")
	}
	if f.Phone == "" || len(f.Phone) > 20 {
		return httperr.Validation("invalid_phone", "Phone is required.")
	}
	return nil
}

func (f Fields) Apply(c *models.Client) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Email = f.Email
	c.Phone = f.Phone
}

// RegistrationTime is the minute-precision registration stamp.
func RegistrationTime(now time.Time) time.Time {
	return now.Truncate(time.Minute)
}

// ===============================
// Repository
// ===============================

type Repository interface {
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uint) error

	Get(ctx context.Context, id uint) (*models.Client, error)
	List(ctx context.Context, q ListQuery) ([]models.Client, int64, error)

	EmailExists(ctx context.Context, email string, excludeID *uint) (bool, error)
	HasAppointments(ctx context.Context, id uint) (bool, error)
}
