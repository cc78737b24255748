package appointment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-citas/internal/logger"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
	"github.com/BruksfildServices01/agenda-citas/internal/testutil"
)

// ======================================================
// FIXTURE
// ======================================================

type fakeCache struct {
	mu            sync.Mutex
	gen           int64
	feeds         map[int64][]byte
	invalidations int
}

func (c *fakeCache) Get(context.Context) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.feeds[c.gen]
	return b, c.gen, ok
}

func (c *fakeCache) Set(_ context.Context, gen int64, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feeds == nil {
		c.feeds = map[int64][]byte{}
	}
	c.feeds[gen] = b
}

func (c *fakeCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidations++
}

type fixture struct {
	db    *gorm.DB
	repo  *repository.AppointmentGormRepository
	cache *fakeCache
	now   time.Time

	client1  *models.Client
	client2  *models.Client
	service1 *models.Service
	inactive *models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		repo:     repository.NewAppointmentGormRepository(db),
		cache:    &fakeCache{},
		now:      time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
		client1:  testutil.CreateClient(t, db, "Ana", "ana@example.com"),
		client2:  testutil.CreateClient(t, db, "Bob", "bob@example.com"),
		service1: testutil.CreateService(t, db, "Haircut", "25.00", true),
		inactive: testutil.CreateService(t, db, "Retired", "5.00", false),
	}
}

func (f *fixture) clock() Clock {
	return func() time.Time { return f.now }
}

func (f *fixture) create() *CreateAppointment {
	return NewCreateAppointment(f.repo, nil, f.cache)
}

func (f *fixture) book(t *testing.T, clientID uint, date, hm string) *models.Appointment {
	t.Helper()
	ap, err := f.create().Execute(context.Background(), CreateAppointmentInput{
		ClientID:  clientID,
		ServiceID: f.service1.ID,
		Date:      date,
		Time:      hm,
	})
	if err != nil {
		t.Fatalf("book %s %s: %v", date, hm, err)
	}
	return ap
}

func (f *fixture) reload(t *testing.T, id uint) *models.Appointment {
	t.Helper()
	ap, err := f.repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("reload %d: %v", id, err)
	}
	return ap
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.Appointment{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// ======================================================
// CREATE
// ======================================================

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap, err := f.create().Execute(ctx, CreateAppointmentInput{
		ClientID:  f.client1.ID,
		ServiceID: f.service1.ID,
		Date:      "2025-06-01",
		Time:      "10:00",
		Comment:   "first visit",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.ID == 0 || ap.Status != domain.StatusPending {
		t.Errorf("created = %+v", ap)
	}
	if ap.StatusChangedAt != nil {
		t.Errorf("status_changed_at should be nil on create")
	}
	if ap.Client.FirstName != "Ana" || ap.Service.Name != "Haircut" {
		t.Errorf("associations not set: %+v", ap)
	}
	if f.cache.invalidations != 1 {
		t.Errorf("cache invalidations = %d", f.cache.invalidations)
	}

	_, err = f.create().Execute(ctx, CreateAppointmentInput{
		ClientID:  f.client2.ID,
		ServiceID: f.service1.ID,
		Date:      "2025-06-01",
		Time:      "10:00",
	})
	if !httperr.IsKind(err, httperr.KindSchedulingConflict) || !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("second booking err = %v, want time_conflict", err)
	}
	if n := f.count(t); n != 1 {
		t.Errorf("appointments = %d, want 1", n)
	}
}

func TestCreateAppointmentRejections(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.client1.ID, "2025-06-01", "09:00")

	tests := []struct {
		name     string
		in       CreateAppointmentInput
		wantKind httperr.Kind
		wantCode string
	}{
		{
			"missing client",
			CreateAppointmentInput{ServiceID: f.service1.ID, Date: "2025-06-01", Time: "10:00"},
			httperr.KindValidation, "missing_client_or_service",
		},
		{
			"missing date",
			CreateAppointmentInput{ClientID: f.client1.ID, ServiceID: f.service1.ID, Time: "10:00"},
			httperr.KindValidation, "missing_date_or_time",
		},
		{
			"bad time",
			CreateAppointmentInput{ClientID: f.client1.ID, ServiceID: f.service1.ID, Date: "2025-06-01", Time: "noon"},
			httperr.KindValidation, "invalid_time",
		},
		{
			"comment too long",
			CreateAppointmentInput{
				ClientID: f.client1.ID, ServiceID: f.service1.ID, Date: "2025-06-01", Time: "10:00",
				Comment: strings.Repeat("x", 251),
			},
			httperr.KindValidation, "comment_too_long",
		},
		{
			"unknown client",
			CreateAppointmentInput{ClientID: 999, ServiceID: f.service1.ID, Date: "2025-06-01", Time: "10:00"},
			httperr.KindNotFound, "client_not_found",
		},
		{
			"unknown service",
			CreateAppointmentInput{ClientID: f.client1.ID, ServiceID: 999, Date: "2025-06-01", Time: "10:00"},
			httperr.KindNotFound, "service_not_found",
		},
		{
			"inactive service",
			CreateAppointmentInput{ClientID: f.client1.ID, ServiceID: f.inactive.ID, Date: "2025-06-01", Time: "10:00"},
			httperr.KindValidation, "service_inactive",
		},
		{
			"slot taken with seconds",
			CreateAppointmentInput{ClientID: f.client2.ID, ServiceID: f.service1.ID, Date: "2025-06-01", Time: "09:00:00"},
			httperr.KindSchedulingConflict, "time_conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create().Execute(context.Background(), tt.in)
			if !httperr.IsKind(err, tt.wantKind) || !httperr.IsBusiness(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s/%s", err, tt.wantKind, tt.wantCode)
			}
			if n := f.count(t); n != 1 {
				t.Errorf("appointments = %d, want 1", n)
			}
		})
	}
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	uc := f.create()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
		others    []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				ClientID:  f.client1.ID,
				ServiceID: f.service1.ID,
				Date:      "2025-06-01",
				Time:      "10:00",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.IsKind(err, httperr.KindSchedulingConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if ok != 1 || conflicts != attempts-1 {
		t.Errorf("ok=%d conflicts=%d", ok, conflicts)
	}
	if n := f.count(t); n != 1 {
		t.Errorf("appointments = %d, want 1", n)
	}
}

func TestCreateAppointmentAudits(t *testing.T) {
	f := newFixture(t)
	d := audit.NewDispatcher(audit.New(f.db), nil, 10, logger.Discard())
	uc := NewCreateAppointment(f.repo, d, f.cache)
	ctx := context.Background()

	in := CreateAppointmentInput{ClientID: f.client1.ID, ServiceID: f.service1.ID, Date: "2025-06-01", Time: "10:00"}
	if _, err := uc.Execute(ctx, in); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := uc.Execute(ctx, in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second Execute = %v", err)
	}

	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	var actions []string
	if err := f.db.Model(&models.AuditLog{}).Order("id").Pluck("action", &actions).Error; err != nil {
		t.Fatalf("audit logs: %v", err)
	}
	want := []string{audit.ActionAppointmentCreated, audit.ActionAppointmentConflict}
	if len(actions) != len(want) || actions[0] != want[0] || actions[1] != want[1] {
		t.Errorf("audit actions = %v, want %v", actions, want)
	}
}

// ======================================================
// CHANGE STATUS
// ======================================================

func TestChangeStatusPendingToCompleted(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")

	uc := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
	got, err := uc.Execute(context.Background(), ap.ID, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}

	stored := f.reload(t, ap.ID)
	if stored.Status != domain.StatusCompleted {
		t.Errorf("stored status = %s", stored.Status)
	}
	if stored.StatusChangedAt == nil || !stored.StatusChangedAt.Equal(f.now) {
		t.Errorf("status_changed_at = %v, want %v", stored.StatusChangedAt, f.now)
	}
}

func TestChangeStatusFromTerminalIsRejected(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	uc := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, ap.ID, domain.StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	before := f.reload(t, ap.ID)

	f.now = f.now.Add(time.Hour)
	_, err := uc.Execute(ctx, ap.ID, domain.StatusCancelled)
	if !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}

	after := f.reload(t, ap.ID)
	if after.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", after.Status)
	}
	if !after.StatusChangedAt.Equal(*before.StatusChangedAt) || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("appointment was modified: before %+v after %+v", before, after)
	}
}

func TestChangeStatusIdempotence(t *testing.T) {
	for _, target := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(target.String(), func(t *testing.T) {
			f := newFixture(t)
			ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
			uc := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
			ctx := context.Background()

			if _, err := uc.Execute(ctx, ap.ID, target); err != nil {
				t.Fatalf("first: %v", err)
			}
			if _, err := uc.Execute(ctx, ap.ID, target); !httperr.IsKind(err, httperr.KindInvalidTransition) {
				t.Fatalf("second = %v, want InvalidTransition", err)
			}
		})
	}
}

func TestChangeStatusNoop(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	invalidations := f.cache.invalidations

	uc := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
	got, err := uc.Execute(context.Background(), ap.ID, domain.StatusPending)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != domain.StatusPending || got.StatusChangedAt != nil {
		t.Errorf("no-op changed the appointment: %+v", got)
	}
	if f.cache.invalidations != invalidations {
		t.Errorf("no-op invalidated the cache")
	}
}

func TestChangeStatusNotFound(t *testing.T) {
	f := newFixture(t)
	uc := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())

	_, err := uc.Execute(context.Background(), 404, domain.StatusConfirmed)
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Fatalf("err = %v", err)
	}
}

// ======================================================
// UPDATE
// ======================================================

func TestUpdateAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	f.book(t, f.client2.ID, "2025-06-01", "11:00")
	uc := NewUpdateAppointment(f.repo, nil, f.cache, f.clock())
	ctx := context.Background()

	t.Run("same slot with new comment keeps status timestamp empty", func(t *testing.T) {
		got, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{Date: "2025-06-01", Time: "10:00", Comment: "moved nothing"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if got.Comment != "moved nothing" || got.StatusChangedAt != nil {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("conflict leaves everything untouched", func(t *testing.T) {
		confirmed := domain.StatusConfirmed
		_, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{
			Date: "2025-06-01", Time: "11:00", Status: &confirmed, Comment: "clash",
		})
		if !httperr.IsBusiness(err, "time_conflict") {
			t.Fatalf("err = %v", err)
		}
		stored := f.reload(t, ap.ID)
		if stored.Time != "10:00" || stored.Status != domain.StatusPending || stored.Comment != "moved nothing" {
			t.Errorf("stored = %+v", stored)
		}
	})

	t.Run("invalid transition leaves slot untouched", func(t *testing.T) {
		pending := domain.StatusPending
		if _, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{Date: "2025-06-01", Time: "12:00", Status: &pending}); err != nil {
			t.Fatalf("pending->pending should be accepted: %v", err)
		}

		confirmed := domain.StatusConfirmed
		if _, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{Date: "2025-06-01", Time: "12:00", Status: &confirmed}); err != nil {
			t.Fatalf("confirm: %v", err)
		}

		_, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{Date: "2025-06-02", Time: "08:00", Status: &pending})
		if !httperr.IsKind(err, httperr.KindInvalidTransition) {
			t.Fatalf("err = %v", err)
		}
		stored := f.reload(t, ap.ID)
		if stored.Date != "2025-06-01" || stored.Time != "12:00" || stored.Status != domain.StatusConfirmed {
			t.Errorf("stored = %+v", stored)
		}
		if stored.StatusChangedAt == nil || !stored.StatusChangedAt.Equal(f.now) {
			t.Errorf("status_changed_at = %v", stored.StatusChangedAt)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.Execute(ctx, 999, UpdateAppointmentInput{Date: "2025-06-01", Time: "13:00"})
		if !httperr.IsKind(err, httperr.KindNotFound) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("validation before lookup", func(t *testing.T) {
		_, err := uc.Execute(ctx, 999, UpdateAppointmentInput{Date: "", Time: "13:00"})
		if !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestUpdateCompletedAppointmentKeepingStatus(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	ctx := context.Background()

	status := NewChangeAppointmentStatus(f.repo, nil, f.cache, f.clock())
	if _, err := status.Execute(ctx, ap.ID, domain.StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	stamped := f.reload(t, ap.ID).StatusChangedAt

	completed := domain.StatusCompleted
	uc := NewUpdateAppointment(f.repo, nil, f.cache, f.clock())
	got, err := uc.Execute(ctx, ap.ID, UpdateAppointmentInput{
		Date: "2025-06-01", Time: "10:00", Status: &completed, Comment: "paid in cash",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Comment != "paid in cash" || got.Status != domain.StatusCompleted {
		t.Errorf("got %+v", got)
	}
	if stored := f.reload(t, ap.ID); stamped == nil || stored.StatusChangedAt == nil ||
		!stored.StatusChangedAt.Equal(*stamped) {
		t.Errorf("status_changed_at moved: %v -> %v", stamped, stored.StatusChangedAt)
	}

	cancelled := domain.StatusCancelled
	_, err = uc.Execute(ctx, ap.ID, UpdateAppointmentInput{Date: "2025-06-01", Time: "10:00", Status: &cancelled})
	if !httperr.IsKind(err, httperr.KindInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
}

// ======================================================
// DELETE
// ======================================================

func TestDeleteAppointment(t *testing.T) {
	f := newFixture(t)
	ap := f.book(t, f.client1.ID, "2025-06-01", "10:00")
	uc := NewDeleteAppointment(f.repo, nil, f.cache)
	ctx := context.Background()

	if err := uc.Execute(ctx, ap.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n := f.count(t); n != 0 {
		t.Errorf("appointments = %d", n)
	}
	if err := uc.Execute(ctx, ap.ID); !httperr.IsBusiness(err, "appointment_not_found") {
		t.Errorf("second delete = %v", err)
	}

	f.book(t, f.client2.ID, "2025-06-01", "10:00")
}
