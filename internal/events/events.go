// Package events publishes resource lifecycle notifications to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Event types.
const (
	BootcampCreated = "bootcamp.created"
	BootcampUpdated = "bootcamp.updated"
	BootcampDeleted = "bootcamp.deleted"
	CourseCreated   = "course.created"
	CourseUpdated   = "course.updated"
	CourseDeleted   = "course.deleted"
	UserRegistered  = "user.registered"
	UserDeleted     = "user.deleted"
	BootcampsSeeded = "bootcamps.seeded"
	BootcampsPurged = "bootcamps.purged"
)

// Event is the message body written to the broker.
type Event struct {
	Type       string    `json:"type"`
	ResourceID string    `json:"resourceId,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// New builds an event stamped with the current time.
func New(eventType, resourceID, actorID string, data any) Event {
	return Event{
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func (e Event) encode() ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return raw, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Notifier publishes on a best-effort basis: failures are logged and never
// surface to the caller.
type Notifier struct {
	publisher Publisher
	logger    *zerolog.Logger
}

// NewNotifier wraps publisher. A nil publisher discards every event.
func NewNotifier(logger *zerolog.Logger, publisher Publisher) *Notifier {
	if publisher == nil {
		publisher = Noop{}
	}
	return &Notifier{publisher: publisher, logger: logger}
}

// Notify publishes event and logs any failure.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn().Err(err).
			Str("event", event.Type).
			Str("resource_id", event.ResourceID).
			Msg("publish event failed")
	}
}

// Close releases the underlying publisher.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	return n.publisher.Close()
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Open returns the publisher for driver: "nats", "kafka" or "" for none.
func Open(logger *zerolog.Logger, driver, natsURL string, kafkaBrokers []string, kafkaTopic string) (Publisher, error) {
	switch driver {
	case "":
		return Noop{}, nil
	case "nats":
		return NewNATSPublisher(logger, natsURL)
	case "kafka":
		return NewKafkaPublisher(kafkaBrokers, kafkaTopic), nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q", driver)
	}
}
