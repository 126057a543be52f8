package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Stream and subject layout for assessment events.
const (
	AssessmentStream  = "SAFEROUTE_ASSESSMENTS"
	AssessmentSubject = "saferoute.assessments"
	// AssessmentWildcard matches every assessment subject.
	AssessmentWildcard = AssessmentSubject + ".>"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the assessment stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:       AssessmentStream,
		Subjects:   []string{AssessmentWildcard},
		Retention:  nats.LimitsPolicy,
		MaxAge:     24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// SubjectFor returns the subject an event is published on, keyed by the
// tier of its safest route.
func SubjectFor(event *domain.AssessmentEvent) string {
	tier := "none"
	if len(event.Routes) > 0 && event.Routes[0].Assessment != nil {
		tier = string(event.Routes[0].Tier)
	}
	return AssessmentSubject + "." + tier
}

// PublishAssessment stores the event in JetStream. The event ID doubles as
// the message ID so redelivered publishes are deduplicated.
func (p *Publisher) PublishAssessment(ctx context.Context, event *domain.AssessmentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	_, err = p.js.Publish(SubjectFor(event), data, nats.MsgId(event.ID), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("publish assessment %s: %w", event.ID, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("saferoute"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
