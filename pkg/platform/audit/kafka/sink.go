// Package kafka fans audit events out to a Kafka topic on top of a primary
// store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	id "crivo/pkg/domain"
	audit "crivo/pkg/platform/audit"
)

// Producer is the minimal publishing surface the sink needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Sink decorates an audit store: every appended event is also produced to a
// Kafka topic keyed by proposal ID, so downstream consumers can build their
// own trails. Reads pass through to the inner store.
type Sink struct {
	inner    audit.Store
	producer Producer
	topic    string
}

// NewSink wraps the inner store with Kafka fanout.
func NewSink(inner audit.Store, producer Producer, topic string) *Sink {
	return &Sink{inner: inner, producer: producer, topic: topic}
}

// envelope is the wire shape of an audit event.
type envelope struct {
	ProposalID string    `json:"proposal_id"`
	Category   string    `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Decision   string    `json:"decision,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if err := s.inner.Append(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(envelope{
		ProposalID: event.ProposalID.String(),
		Category:   string(event.Category),
		Timestamp:  event.Timestamp,
		Action:     event.Action,
		Actor:      event.Actor,
		Decision:   event.Decision,
		Reason:     event.Reason,
		RequestID:  event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit envelope: %w", err)
	}

	if err := s.producer.Publish(ctx, s.topic, []byte(event.ProposalID.String()), payload); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (s *Sink) ListByProposal(ctx context.Context, proposalID id.ProposalID) ([]audit.Event, error) {
	return s.inner.ListByProposal(ctx, proposalID)
}
