package cache

import (
	"context"
	"errors"
	"log/slog"

	"crivo/internal/credit"
	"crivo/pkg/platform/circuit"
	"crivo/pkg/platform/sentinel"
)

// Guarded wraps a cache with a circuit breaker. While the circuit is open,
// reads report a miss without touching the backend; writes keep probing it so
// the circuit can close again once the backend recovers.
type Guarded struct {
	inner   credit.ResultCache
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuarded wraps inner with the given breaker.
func NewGuarded(inner credit.ResultCache, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{inner: inner, breaker: breaker, logger: logger}
}

func (g *Guarded) Get(ctx context.Context, key string) (*credit.Result, error) {
	if g.breaker.IsOpen() {
		return nil, sentinel.ErrNotFound
	}

	result, err := g.inner.Get(ctx, key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.Warn("analysis cache circuit opened", "breaker", g.breaker.Name(), "error", err)
		}
		return nil, err
	}

	g.breaker.RecordSuccess()
	return result, err
}

func (g *Guarded) Set(ctx context.Context, key string, result *credit.Result) error {
	err := g.inner.Set(ctx, key, result)
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.Warn("analysis cache circuit opened", "breaker", g.breaker.Name(), "error", err)
		}
		return err
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.Info("analysis cache circuit closed", "breaker", g.breaker.Name())
	}
	return nil
}
