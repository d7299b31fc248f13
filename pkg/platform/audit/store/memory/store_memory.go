package memory

import (
	"context"
	"sync"

	id "crivo/pkg/domain"
	audit "crivo/pkg/platform/audit"
)

// InMemoryStore keeps audit events per proposal. Used in tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ProposalID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ProposalID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.ProposalID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ProposalID] = append(s.events[event.ProposalID], event)
	return nil
}

func (s *InMemoryStore) ListByProposal(_ context.Context, proposalID id.ProposalID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[proposalID]...), nil
}

// ListAll returns every stored event across proposals.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, events := range s.events {
		all = append(all, events...)
	}
	return all, nil
}
