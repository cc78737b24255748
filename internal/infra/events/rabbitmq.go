package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
)

// Message is the JSON body published for every audit event.
type Message struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   *uint          `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *slog.Logger
}

// NewRabbitPublisher dials the broker and declares a durable topic exchange.
func NewRabbitPublisher(url, exchange string, log *slog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	log.Info("rabbitmq_connected", "exchange", exchange)

	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log,
	}, nil
}

// Publish is only called from the audit worker goroutine.
func (p *RabbitPublisher) Publish(ctx context.Context, ev audit.Event) error {
	key, msg, err := buildPublishing(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", key, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.log.Warn("rabbitmq_channel_close_failed", "error", err)
	}
	return p.conn.Close()
}

// RoutingKey is "<entity>.<action>", e.g. "appointment.appointment_created".
func RoutingKey(ev audit.Event) string {
	entity := ev.Entity
	if entity == "" {
		entity = "unknown"
	}
	return entity + "." + ev.Action
}

func buildPublishing(ev audit.Event) (string, amqp.Publishing, error) {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	msg := Message{
		ID:         uuid.NewString(),
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   ev.Metadata,
		OccurredAt: at,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return RoutingKey(ev), amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    at,
		Type:         ev.Action,
		Body:         body,
	}, nil
}

var _ audit.Publisher = (*RabbitPublisher)(nil)
