package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
	"github.com/BruksfildServices01/agenda-citas/internal/testutil"
)

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.client1.ID, "2025-06-02", "10:00")
	f.book(t, f.client2.ID, "2025-06-01", "10:00")
	uc := NewListAppointments(f.repo)
	ctx := context.Background()

	got, err := uc.Execute(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2025-06-01" || got[0].ClientName != "Bob Test" || got[0].ServiceName != "Haircut" {
		t.Errorf("got %+v", got)
	}

	got, err = uc.Execute(ctx, domain.Filter{ClientID: &f.client1.ID})
	if err != nil || len(got) != 1 || got[0].ClientID != f.client1.ID {
		t.Errorf("by client = %+v, %v", got, err)
	}

	if _, err := uc.Execute(ctx, domain.Filter{From: "2025-06-05", To: "2025-06-01"}); !httperr.IsBusiness(err, "invalid_range") {
		t.Errorf("reversed range = %v", err)
	}
	if _, err := uc.Execute(ctx, domain.Filter{Date: "June 1"}); !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("bad date = %v", err)
	}
}

func TestGetAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	uc := NewGetAppointment(f.repo)

	got, err := uc.Execute(context.Background(), ap.ID)
	if err != nil || got.ID != ap.ID || got.Client.Email != "ana@example.com" {
		t.Fatalf("got %+v, %v", got, err)
	}
	if _, err := uc.Execute(context.Background(), 999); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("missing = %v", err)
	}
}

func TestGetCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	confirmed := f.book(t, f.client1.ID, "2025-06-01", "11:00")
	completed := f.book(t, f.client2.ID, "2025-06-02", "09:30")
	cancelled := f.book(t, f.client2.ID, "2025-06-03", "15:00")

	change := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
	for id, st := range map[uint]domain.Status{
		confirmed.ID: domain.StatusConfirmed,
		completed.ID: domain.StatusCompleted,
		cancelled.ID: domain.StatusCancelled,
	} {
		if _, err := change.Execute(ctx, id, st); err != nil {
			t.Fatalf("change %d: %v", id, err)
		}
	}

	uc := NewGetCalendar(f.repo, f.cache)
	events, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}

	want := map[uint]struct{ start, color string }{
		pending.ID:   {"2025-06-01T10:00:00", "#0d6efd"},
		confirmed.ID: {"2025-06-01T11:00:00", "#ffc107"},
		completed.ID: {"2025-06-02T09:30:00", "#28a745"},
		cancelled.ID: {"2025-06-03T15:00:00", "#dc3545"},
	}
	for _, ev := range events {
		w := want[ev.ID]
		if ev.Start != w.start || ev.Color != w.color || ev.AllDay {
			t.Errorf("event %d = %+v, want %+v", ev.ID, ev, w)
		}
	}
	if events[0].Title != "Ana Test - Haircut" {
		t.Errorf("title = %q", events[0].Title)
	}

	if _, _, ok := f.cache.Get(ctx); !ok {
		t.Fatal("calendar was not cached")
	}

	// Served from cache until the next mutation.
	if err := f.db.Exec("DELETE FROM appointments").Error; err != nil {
		t.Fatalf("wipe: %v", err)
	}
	cached, err := uc.Execute(ctx)
	if err != nil || len(cached) != 4 {
		t.Fatalf("cached = %d, %v", len(cached), err)
	}

	f.book(t, f.client1.ID, "2025-07-01", "10:00")
	fresh, err := uc.Execute(ctx)
	if err != nil || len(fresh) != 1 {
		t.Fatalf("fresh = %d, %v", len(fresh), err)
	}
}

// interleavedCache runs beforeSet once, between the store read and the
// cache write of a calendar rebuild.
type interleavedCache struct {
	*fakeCache
	beforeSet func()
}

func (c *interleavedCache) Set(ctx context.Context, gen int64, b []byte) {
	if fn := c.beforeSet; fn != nil {
		c.beforeSet = nil
		fn()
	}
	c.fakeCache.Set(ctx, gen, b)
}

func TestGetCalendarDropsFeedBuiltBeforeMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")

	cache := &interleavedCache{fakeCache: f.cache}
	change := NewChangeAppointmentStatus(f.repo, nil, cache, f.clock())
	cache.beforeSet = func() {
		if _, err := change.Execute(ctx, ap.ID, domain.StatusCancelled); err != nil {
			t.Errorf("cancel: %v", err)
		}
	}

	uc := NewGetCalendar(f.repo, cache)
	if _, err := uc.Execute(ctx); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	events, err := uc.Execute(ctx)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if len(events) != 1 || events[0].Color != "#dc3545" {
		t.Fatalf("events = %+v; want the cancelled color", events)
	}
	if stored := f.reload(t, ap.ID); stored.Status != domain.StatusCancelled {
		t.Errorf("stored status = %s", stored.Status)
	}
}

func TestGetReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	shave := testutil.CreateService(t, f.db, "Shave", "15.50", true)
	beard := testutil.CreateService(t, f.db, "Beard", "10.00", true)

	add := func(serviceID uint, date, hm string, st models.AppointmentStatus) {
		testutil.CreateAppointment(t, f.db, f.client1.ID, serviceID, date, hm, st)
	}
	add(f.service1.ID, "2025-06-01", "09:00", models.StatusCompleted)
	add(f.service1.ID, "2025-06-01", "10:00", models.StatusCancelled)
	add(shave.ID, "2025-06-02", "09:00", models.StatusPending)
	add(shave.ID, "2025-06-03", "09:00", models.StatusConfirmed)
	add(beard.ID, "2025-06-04", "09:00", models.StatusPending)
	add(f.service1.ID, "2025-04-01", "09:00", models.StatusCompleted)

	uc := NewGetReport(f.repo, f.clock())

	t.Run("explicit range", func(t *testing.T) {
		r, err := uc.Execute(ctx, ReportInput{From: "2025-06-01", To: "2025-06-30"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if r.Pending != 2 || r.Confirmed != 1 || r.Completed != 1 || r.Cancelled != 1 || r.Total != 5 {
			t.Errorf("counts = %+v", r)
		}

		want := []struct {
			name    string
			count   int64
			revenue string
		}{
			{"Shave", 2, "31"},
			{"Beard", 1, "10"},
			{"Haircut", 1, "25"},
		}
		if len(r.Services) != len(want) {
			t.Fatalf("services = %+v", r.Services)
		}
		for i, w := range want {
			s := r.Services[i]
			if s.Name != w.name || s.Count != w.count || !s.Revenue.Equal(decimal.RequireFromString(w.revenue)) {
				t.Errorf("[%d] = %+v, want %+v", i, s, w)
			}
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		r, err := uc.Execute(ctx, ReportInput{From: "2025-06-04", To: "2025-06-04"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if r.Total != 1 || r.Pending != 1 {
			t.Errorf("counts = %+v", r)
		}
	})

	t.Run("default trailing month", func(t *testing.T) {
		f.now = time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
		r, err := uc.Execute(ctx, ReportInput{})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if r.From != "2025-05-03" || r.To != "2025-06-03" {
			t.Errorf("range = %s..%s", r.From, r.To)
		}
		if r.Total != 4 {
			t.Errorf("total = %d, want 4", r.Total)
		}
	})

	t.Run("default range clamps at month end", func(t *testing.T) {
		tests := []struct {
			today time.Time
			from  string
		}{
			{time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC), "2025-02-28"},
			{time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC), "2024-02-29"},
			{time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC), "2025-04-30"},
			{time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC), "2024-12-15"},
		}
		for _, tt := range tests {
			f.now = tt.today
			r, err := uc.Execute(ctx, ReportInput{})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if want := tt.today.Format(domain.DateLayout); r.From != tt.from || r.To != want {
				t.Errorf("today %s: range = %s..%s, want %s..%s", want, r.From, r.To, tt.from, want)
			}
		}
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := uc.Execute(ctx, ReportInput{From: "2025-06-30", To: "2025-06-01"})
		if !httperr.IsBusiness(err, "invalid_range") {
			t.Errorf("err = %v", err)
		}
	})
}
