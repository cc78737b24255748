package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/agenda-citas/internal/metrics"
)

const (
	ActionAppointmentCreated       = "appointment_created"
	ActionAppointmentUpdated       = "appointment_updated"
	ActionAppointmentStatusChanged = "appointment_status_changed"
	ActionAppointmentDeleted       = "appointment_deleted"
	ActionAppointmentConflict      = "appointment_conflict"

	EntityAppointment = "appointment"
)

type Event struct {
	Action   string
	Entity   string
	EntityID *uint
	Metadata map[string]any
	At       time.Time
}

// Publisher forwards events to an external broker after they are persisted.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	logger    *Logger
	publisher Publisher
	log       *slog.Logger

	queue chan Event
	done  chan struct{}
	once  sync.Once
	mu    sync.RWMutex
	shut  bool
}

func NewDispatcher(logger *Logger, publisher Publisher, size int, log *slog.Logger) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	d := &Dispatcher{
		logger:    logger,
		publisher: publisher,
		log:       log,
		queue:     make(chan Event, size),
		done:      make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx := context.Background()

		if d.logger != nil {
			if err := d.logger.Log(ctx, ev); err != nil {
				d.log.Error("audit_write_failed", "action", ev.Action, "error", err)
			}
		}

		if d.publisher != nil {
			if err := d.publisher.Publish(ctx, ev); err != nil {
				d.log.Warn("audit_publish_failed", "action", ev.Action, "error", err)
			}
		}
	}
}

// Dispatch never blocks; events are dropped when the queue is full or
// the dispatcher has been stopped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.shut {
		return
	}

	select {
	case d.queue <- ev:
	default:
		metrics.AuditEventsDropped.Inc()
		d.log.Warn("audit_queue_full", "action", ev.Action)
	}
}

// Stop drains queued events and waits for the worker, or gives up when ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.shut = true
		close(d.queue)
		d.mu.Unlock()
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
