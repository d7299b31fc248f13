package audit

import (
	"context"
	"time"

	id "crivo/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: credit
	// decisions and lifecycle changes. These require long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions on a proposal.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory `json:"category"`
	Timestamp  time.Time     `json:"timestamp"`
	ProposalID id.ProposalID `json:"-"`
	Action     string        `json:"action"`

	// Actor is the role or system identity that triggered the action.
	Actor string `json:"actor,omitempty"`

	// Decision summarizes the outcome (e.g. "approved", "denied",
	// "IN_REVIEW->APPROVED").
	Decision string `json:"decision,omitempty"`

	// Reason carries the leading error or restriction when the action was
	// rejected.
	Reason string `json:"reason,omitempty"`

	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventProposalCreated   AuditEvent = "proposal_created"
	EventProposalValidated AuditEvent = "proposal_validated"
	EventCreditAnalyzed    AuditEvent = "credit_analyzed"
	EventStatusChanged     AuditEvent = "status_changed"
	EventStatusRejected    AuditEvent = "status_change_rejected"
	EventSimulationRun     AuditEvent = "simulation_run"
)

// eventCategories maps each audit event to its category. Credit decisions and
// lifecycle changes are compliance events; the rest is operational.
var eventCategories = map[AuditEvent]EventCategory{
	EventProposalCreated:   CategoryOperations,
	EventProposalValidated: CategoryOperations,
	EventCreditAnalyzed:    CategoryCompliance,
	EventStatusChanged:     CategoryCompliance,
	EventStatusRejected:    CategoryCompliance,
	EventSimulationRun:     CategoryOperations,
}

// Category returns the EventCategory for this audit event. Unknown events
// default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByProposal(ctx context.Context, proposalID id.ProposalID) ([]Event, error)
}
