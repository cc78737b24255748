package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/timezone"
)

// Clock returns the current wall-clock time in the business timezone.
type Clock func() time.Time

func SystemClock(tz string) Clock {
	return func() time.Time {
		return timezone.NowIn(tz)
	}
}

func cacheOrNop(c domain.CalendarCache) domain.CalendarCache {
	if c == nil {
		return domain.NopCalendarCache{}
	}
	return c
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock(timezone.DefaultTimezone)
	}
	return c
}

func dispatch(d *audit.Dispatcher, action string, id uint, meta map[string]any) {
	d.Dispatch(audit.Event{
		Action:   action,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
		Metadata: meta,
	})
}

