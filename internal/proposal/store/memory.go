package store

import (
	"context"
	"sync"
	"time"

	"crivo/internal/credit"
	"crivo/internal/proposal/status"
	id "crivo/pkg/domain"
	"crivo/pkg/platform/sentinel"
)

// InMemoryStore keeps proposal records in a mutex-guarded map.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.ProposalID]*ProposalRecord
	now     func() time.Time
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.ProposalID]*ProposalRecord),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *ProposalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Proposal.ID
	if _, exists := s.records[key]; exists {
		return sentinel.ErrConflict
	}

	stored := *record
	now := s.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.records[key] = &stored
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, proposalID id.ProposalID) (*ProposalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[proposalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *InMemoryStore) ListByStatus(_ context.Context, st status.Status) ([]*ProposalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ProposalRecord
	for _, record := range s.records {
		if record.Status == st {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, proposalID id.ProposalID, from, to status.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[proposalID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if record.Status != from {
		return sentinel.ErrInvalidState
	}

	record.Status = to
	record.UpdatedAt = s.now()
	return nil
}

func (s *InMemoryStore) SaveAnalysis(_ context.Context, proposalID id.ProposalID, analysis *credit.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[proposalID]
	if !ok {
		return sentinel.ErrNotFound
	}

	record.Analysis = analysis
	record.UpdatedAt = s.now()
	return nil
}
