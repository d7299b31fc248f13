package credit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"crivo/internal/credit/metrics"
	id "crivo/pkg/domain"
	audit "crivo/pkg/platform/audit"
	"crivo/pkg/platform/sentinel"
)

// ResultCache stores analysis results keyed by input fingerprint.
// Implementations return sentinel.ErrNotFound on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Result, error)
	Set(ctx context.Context, key string, result *Result) error
}

// AuditPort emits audit events. Matches the audit publisher surface but is
// declared here to keep the module boundary explicit.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service wraps the scoring engine with caching, observability and audit
// emission. The engine itself stays pure; everything stateful lives here.
type Service struct {
	engine  *Engine
	cache   ResultCache
	auditor AuditPort
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the Prometheus metrics collector.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithCache enables analysis result caching.
func WithCache(cache ResultCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithAuditor enables audit trail emission.
func WithAuditor(auditor AuditPort) ServiceOption {
	return func(s *Service) { s.auditor = auditor }
}

// NewService constructs a Service around the engine.
func NewService(engine *Engine, opts ...ServiceOption) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	s := &Service{
		engine: engine,
		logger: slog.Default(),
		tracer: otel.Tracer("crivo/credit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Analyze scores the input, consulting the cache first. The proposal ID is
// only used for correlation in logs and the audit trail.
func (s *Service) Analyze(ctx context.Context, proposalID id.ProposalID, input Input) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "credit.Analyze")
	defer span.End()

	start := time.Now()

	key, err := fingerprint(input)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			s.metrics.IncrementCache("hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			// A broken cache must not block the decision path.
			s.logger.WarnContext(ctx, "analysis cache read failed", "error", err)
		}
		s.metrics.IncrementCache("miss")
	}

	result := s.engine.Analyze(input)

	span.SetAttributes(
		attribute.Int("credit.score", result.Score),
		attribute.String("credit.risk", string(result.Risk)),
		attribute.Bool("credit.approved", result.Approved),
	)

	s.metrics.IncrementOutcome(decisionLabel(result.Approved), string(result.Risk))
	s.metrics.ObserveScore(result.Score)
	s.metrics.ObserveAnalyzeLatency(time.Since(start))

	s.logger.InfoContext(ctx, "credit analysis completed",
		"proposal_id", proposalID.String(),
		"score", result.Score,
		"risk", result.Risk,
		"approved", result.Approved,
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.WarnContext(ctx, "analysis cache write failed", "error", err)
		}
	}

	s.emitAudit(ctx, proposalID, result)

	return result, nil
}

func (s *Service) emitAudit(ctx context.Context, proposalID id.ProposalID, result *Result) {
	if s.auditor == nil {
		return
	}

	event := audit.Event{
		ProposalID: proposalID,
		Action:     string(audit.EventCreditAnalyzed),
		Decision:   decisionLabel(result.Approved),
	}
	if len(result.Restrictions) > 0 {
		event.Reason = result.Restrictions[0]
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emission failed", "error", err)
	}
}

func decisionLabel(approved bool) string {
	if approved {
		return "approved"
	}
	return "denied"
}

// fingerprint derives a stable cache key from the analysis input.
func fingerprint(input Input) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("fingerprint analysis input: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
