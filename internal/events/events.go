package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event types published by the portal.
const (
	GradeRecorded       = "grades.recorded"
	EnrollmentCreated   = "enrollments.created"
	EnrollmentDropped   = "enrollments.dropped"
	AnnouncementCreated = "announcements.created"
	CourseDeleted       = "courses.deleted"
)

// Envelope is the wire format of every published event.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

type messagePublisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes events to NATS subjects named "<prefix>.<event type>".
type NATSPublisher struct {
	conn   messagePublisher
	prefix string
	nodeID string
	now    func() time.Time
	logger zerolog.Logger
}

// NewNATSPublisher wraps an established NATS connection.
func NewNATSPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	return newNATSPublisher(conn, prefix, logger)
}

func newNATSPublisher(conn messagePublisher, prefix string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:   conn,
		prefix: strings.Trim(strings.ReplaceAll(prefix, ":", "."), "."),
		nodeID: uuid.NewString(),
		now:    time.Now,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish serialises the event and sends it without waiting for subscribers.
func (p *NATSPublisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     p.nodeID,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	subject := p.Subject(eventType)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Str("event_id", envelope.ID).Msg("event published")
	return nil
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, interface{}) error { return nil }
