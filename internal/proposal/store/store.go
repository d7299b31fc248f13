// Package store persists loan proposals and their lifecycle state. Two
// implementations exist: an in-memory store for tests and local runs, and a
// PostgreSQL store for production.
package store

import (
	"context"
	"time"

	"crivo/internal/credit"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/status"
	id "crivo/pkg/domain"
)

// ProposalRecord pairs the proposal aggregate with its lifecycle state and
// the latest credit analysis, when one has run.
type ProposalRecord struct {
	Proposal models.Proposal
	Status   status.Status
	Analysis *credit.Result

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the proposal persistence port.
//
// Implementations return sentinel.ErrNotFound for missing records,
// sentinel.ErrConflict for duplicate creation and sentinel.ErrInvalidState
// when a compare-and-set status update loses the race.
type Store interface {
	// Create inserts a new proposal record.
	Create(ctx context.Context, record *ProposalRecord) error

	// FindByID retrieves a record by proposal ID.
	FindByID(ctx context.Context, proposalID id.ProposalID) (*ProposalRecord, error)

	// ListByStatus retrieves all records currently in the given status.
	ListByStatus(ctx context.Context, st status.Status) ([]*ProposalRecord, error)

	// UpdateStatus moves a proposal from one status to another atomically:
	// the update only applies while the stored status still equals from.
	UpdateStatus(ctx context.Context, proposalID id.ProposalID, from, to status.Status) error

	// SaveAnalysis attaches the latest credit analysis to the record.
	SaveAnalysis(ctx context.Context, proposalID id.ProposalID, analysis *credit.Result) error
}
