// Package publisher delivers audit events to a store, either synchronously or
// through a buffered background worker.
package publisher

import (
	"context"
	"fmt"
	"sync"
	"time"

	id "crivo/pkg/domain"
	audit "crivo/pkg/platform/audit"
)

// Publisher emits audit events. In sync mode Emit appends directly to the
// store; with an async buffer Emit enqueues and a background worker drains.
type Publisher struct {
	store audit.Store

	inbox  chan audit.Event
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous delivery with the
// given buffer capacity. A full buffer makes Emit fail rather than block the
// calling request.
func WithAsyncBuffer(capacity int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, capacity)
	}
}

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an audit event. A zero timestamp is stamped with the current
// time.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		return fmt.Errorf("audit buffer full, event %q dropped", event.Action)
	}
}

// List returns the events recorded for a proposal.
func (p *Publisher) List(ctx context.Context, proposalID id.ProposalID) ([]audit.Event, error) {
	return p.store.ListByProposal(ctx, proposalID)
}

// Close stops the background worker after draining buffered events.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			// Async callers have already returned; there is nobody left to
			// report a store failure to.
			_ = p.store.Append(context.Background(), event)
		case <-p.done:
			for {
				select {
				case event := <-p.inbox:
					_ = p.store.Append(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}
