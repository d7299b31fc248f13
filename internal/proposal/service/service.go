// Package service orchestrates the proposal lifecycle: intake validation,
// credit analysis and role-gated status transitions, with persistence and an
// audit trail around every decision.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"crivo/internal/credit"
	"crivo/internal/proposal/catalog"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/rules"
	"crivo/internal/proposal/status"
	"crivo/internal/proposal/store"
	id "crivo/pkg/domain"
	dErrors "crivo/pkg/domain-errors"
	audit "crivo/pkg/platform/audit"
	"crivo/pkg/platform/sentinel"
)

// Analyzer scores a proposal snapshot. Satisfied by the credit service.
type Analyzer interface {
	Analyze(ctx context.Context, proposalID id.ProposalID, input credit.Input) (*credit.Result, error)
}

// AuditPort emits audit events.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates proposal operations across the validator, the credit
// analyzer and the store.
type Service struct {
	store     store.Store
	catalog   catalog.Catalog
	validator *rules.Validator
	analyzer  Analyzer
	auditor   AuditPort
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAnalyzer enables credit analysis for proposals in review.
func WithAnalyzer(analyzer Analyzer) Option {
	return func(s *Service) { s.analyzer = analyzer }
}

// WithAuditor enables audit trail emission.
func WithAuditor(auditor AuditPort) Option {
	return func(s *Service) { s.auditor = auditor }
}

// WithClock fixes the reference time. Tests use this for stable timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs the lifecycle service.
func NewService(st store.Store, cat catalog.Catalog, validator *rules.Validator, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	s := &Service{
		store:     st,
		catalog:   cat,
		validator: validator,
		logger:    slog.Default(),
		tracer:    otel.Tracer("crivo/proposal"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create validates a proposal and persists it in DRAFT. Blocking validation
// errors prevent creation; warnings are returned alongside the record.
func (s *Service) Create(ctx context.Context, p models.Proposal, actor string) (*store.ProposalRecord, *models.ValidationResult, error) {
	ctx, span := s.tracer.Start(ctx, "proposal.Create")
	defer span.End()

	product, table, err := s.resolveReferences(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	result := s.validator.Validate(p, product, table)
	if !result.Valid() {
		return nil, result, dErrors.New(dErrors.CodeValidation, "proposal failed validation")
	}

	if p.ID.IsNil() {
		p.ID = id.NewProposalID()
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	record := &store.ProposalRecord{
		Proposal:  p,
		Status:    status.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("create proposal: %w", err)
	}

	span.SetAttributes(attribute.String("proposal.id", p.ID.String()))
	s.logger.InfoContext(ctx, "proposal created",
		"proposal_id", p.ID.String(),
		"warnings", len(result.Warnings),
	)
	s.emit(ctx, audit.Event{
		ProposalID: p.ID,
		Action:     string(audit.EventProposalCreated),
		Actor:      actor,
	})

	return record, result, nil
}

// Validate runs the rule stages without persisting anything.
func (s *Service) Validate(ctx context.Context, p models.Proposal) (*models.ValidationResult, error) {
	ctx, span := s.tracer.Start(ctx, "proposal.Validate")
	defer span.End()

	product, table, err := s.resolveReferences(ctx, p)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(p, product, table)
	s.emit(ctx, audit.Event{
		ProposalID: p.ID,
		Action:     string(audit.EventProposalValidated),
		Decision:   validityLabel(result.Valid()),
	})
	return result, nil
}

// Get retrieves a proposal record by ID.
func (s *Service) Get(ctx context.Context, proposalID id.ProposalID) (*store.ProposalRecord, error) {
	record, err := s.store.FindByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	return record, nil
}

// ListByStatus retrieves all proposals currently in the given status.
func (s *Service) ListByStatus(ctx context.Context, st status.Status) ([]*store.ProposalRecord, error) {
	if !st.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown status %q", string(st))
	}
	records, err := s.store.ListByStatus(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return records, nil
}

// ChangeStatus applies a role-gated lifecycle transition. The returned result
// carries warnings on success and every rejection reason on failure.
func (s *Service) ChangeStatus(ctx context.Context, proposalID id.ProposalID, requested status.Status, role status.Role, actor string) (*models.ValidationResult, error) {
	ctx, span := s.tracer.Start(ctx, "proposal.ChangeStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("proposal.id", proposalID.String()),
		attribute.String("proposal.requested_status", string(requested)),
	)

	record, err := s.store.FindByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("find proposal: %w", err)
	}

	result := status.ValidateTransition(record.Status, requested, role, &status.TransitionContext{
		BureauScore: record.Proposal.Client.BureauScore,
	})
	if !result.Valid() {
		s.emit(ctx, audit.Event{
			ProposalID: proposalID,
			Action:     string(audit.EventStatusRejected),
			Actor:      actor,
			Decision:   string(requested),
			Reason:     result.Errors[0],
		})
		return result, dErrors.New(dErrors.CodeValidation, "status transition rejected")
	}

	if err := s.store.UpdateStatus(ctx, proposalID, record.Status, requested); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "proposal status changed concurrently")
		}
		return nil, fmt.Errorf("update proposal status: %w", err)
	}

	s.logger.InfoContext(ctx, "proposal status changed",
		"proposal_id", proposalID.String(),
		"from", record.Status,
		"to", requested,
		"role", role,
	)
	s.emit(ctx, audit.Event{
		ProposalID: proposalID,
		Action:     string(audit.EventStatusChanged),
		Actor:      actor,
		Decision:   string(requested),
	})

	return result, nil
}

// Analyze runs the credit analysis for a proposal in review and attaches the
// result to the record.
func (s *Service) Analyze(ctx context.Context, proposalID id.ProposalID) (*credit.Result, error) {
	if s.analyzer == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "credit analysis is not configured")
	}

	ctx, span := s.tracer.Start(ctx, "proposal.Analyze")
	defer span.End()
	span.SetAttributes(attribute.String("proposal.id", proposalID.String()))

	record, err := s.store.FindByID(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	if record.Status != status.StatusInReview {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"credit analysis requires status %s, proposal is %s", status.StatusInReview, record.Status)
	}

	product, table, err := s.resolveReferences(ctx, record.Proposal)
	if err != nil {
		return nil, err
	}

	input := analysisInput(record.Proposal, product, table)
	result, err := s.analyzer.Analyze(ctx, proposalID, input)
	if err != nil {
		return nil, fmt.Errorf("analyze proposal: %w", err)
	}

	if err := s.store.SaveAnalysis(ctx, proposalID, result); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return result, nil
}

func (s *Service) resolveReferences(ctx context.Context, p models.Proposal) (models.Product, models.CommercialTable, error) {
	product, err := s.catalog.Product(ctx, p.ProductID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Product{}, models.CommercialTable{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown product %s", p.ProductID)
		}
		return models.Product{}, models.CommercialTable{}, fmt.Errorf("resolve product: %w", err)
	}

	table, err := s.catalog.CommercialTable(ctx, p.CommercialTableID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Product{}, models.CommercialTable{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown commercial table %s", p.CommercialTableID)
		}
		return models.Product{}, models.CommercialTable{}, fmt.Errorf("resolve commercial table: %w", err)
	}

	return product, table, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emission failed", "error", err)
	}
}

// analysisInput snapshots the proposal fields the scoring engine consumes.
func analysisInput(p models.Proposal, product models.Product, table models.CommercialTable) credit.Input {
	return credit.Input{
		ClientCPF:           p.Client.CPF,
		RequestedAmount:     p.Conditions.Amount,
		RequestedTermMonths: p.Conditions.TermMonths,
		MonthlyIncome:       p.Client.MonthlyIncome,
		BureauScore:         p.Client.BureauScore,
		PaymentHistory:      p.Client.PaymentHistory,
		Debts:               p.Client.Debts,
		Product:             product,
		CommercialTable:     table,
	}
}

func validityLabel(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
