package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

// Filter narrows List. Zero fields are ignored; From/To bound Date inclusively.
type Filter struct {
	Date      string
	ClientID  *uint
	ServiceID *uint
	Status    *Status
	From      string
	To        string
}

type Repository interface {
	// -------- Unit of work --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Client / Service --------
	GetClient(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (conflict / write) --------
	HasConflict(
		ctx context.Context,
		slot Slot,
		excludeID *uint,
	) (bool, error)

	Create(
		ctx context.Context,
		ap *models.Appointment,
	) error

	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	Delete(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointment (read) --------
	Get(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	List(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, error)

	// -------- Reporting --------
	CountByStatus(
		ctx context.Context,
		from string,
		to string,
	) (map[Status]int64, error)

	// CountByService counts non-cancelled appointments per service id.
	CountByService(
		ctx context.Context,
		from string,
		to string,
	) (map[uint]int64, error)

	ListActiveServices(
		ctx context.Context,
	) ([]models.Service, error)
}

// CalendarCache stores the rendered calendar feed between mutations.
// Entries are keyed by a generation that Invalidate advances, so a feed
// built before a mutation can never be stored as current after it.
type CalendarCache interface {
	// Get returns the feed of the current generation. gen is the generation
	// a subsequent Set must use; it is negative when the cache is unusable.
	Get(ctx context.Context) (payload []byte, gen int64, ok bool)
	Set(ctx context.Context, gen int64, payload []byte)
	Invalidate(ctx context.Context)
}

type NopCalendarCache struct{}

func (NopCalendarCache) Get(context.Context) ([]byte, int64, bool) { return nil, -1, false }
func (NopCalendarCache) Set(context.Context, int64, []byte)        {}
func (NopCalendarCache) Invalidate(context.Context)                {}
