package appointment

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/dto"
)

type GetCalendar struct {
	repo  domain.Repository
	cache domain.CalendarCache
}

func NewGetCalendar(repo domain.Repository, cache domain.CalendarCache) *GetCalendar {
	return &GetCalendar{
		repo:  repo,
		cache: cacheOrNop(cache),
	}
}

// Execute lists every appointment as a calendar event.
func (uc *GetCalendar) Execute(ctx context.Context) ([]dto.CalendarEventDTO, error) {
	b, gen, ok := uc.cache.Get(ctx)
	if ok {
		var cached []dto.CalendarEventDTO
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	appointments, err := uc.repo.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}

	events := make([]dto.CalendarEventDTO, 0, len(appointments))
	for _, ap := range appointments {
		events = append(events, dto.CalendarEventDTO{
			ID:     ap.ID,
			Title:  fmt.Sprintf("%s - %s", ap.Client.FullName(), ap.Service.Name),
			Start:  domain.SlotOf(&ap).ISO(),
			AllDay: false,
			Color:  domain.CalendarColor(ap.Status),
		})
	}

	if gen >= 0 {
		if b, err := json.Marshal(events); err == nil {
			uc.cache.Set(ctx, gen, b)
		}
	}

	return events, nil
}
