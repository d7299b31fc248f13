// Package handler wires proposal lifecycle endpoints to the proposal service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crivo/internal/credit"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/status"
	"crivo/internal/proposal/store"
	id "crivo/pkg/domain"
	dErrors "crivo/pkg/domain-errors"
	"crivo/pkg/platform/httputil"
	"crivo/pkg/requestcontext"
)

// Service defines the interface for proposal lifecycle operations.
type Service interface {
	Create(ctx context.Context, p models.Proposal, actor string) (*store.ProposalRecord, *models.ValidationResult, error)
	Validate(ctx context.Context, p models.Proposal) (*models.ValidationResult, error)
	Get(ctx context.Context, proposalID id.ProposalID) (*store.ProposalRecord, error)
	ListByStatus(ctx context.Context, st status.Status) ([]*store.ProposalRecord, error)
	ChangeStatus(ctx context.Context, proposalID id.ProposalID, requested status.Status, role status.Role, actor string) (*models.ValidationResult, error)
	Analyze(ctx context.Context, proposalID id.ProposalID) (*credit.Result, error)
}

// Handler wires proposal endpoints to the lifecycle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a proposal handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts proposal endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/proposals", h.HandleCreate)
	r.Post("/proposals/validate", h.HandleValidate)
	r.Get("/proposals", h.HandleList)
	r.Get("/proposals/{proposalID}", h.HandleGet)
	r.Post("/proposals/{proposalID}/status", h.HandleChangeStatus)
	r.Post("/proposals/{proposalID}/analysis", h.HandleAnalyze)
}

// HandleCreate handles POST /proposals.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, result, err := h.service.Create(ctx, req.Parsed(), requestcontext.ActorID(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) && result != nil {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, FromValidation(result))
			return
		}
		h.logger.ErrorContext(ctx, "proposal creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateResponse{
		Proposal: FromRecord(record),
		Warnings: result.Warnings,
	})
}

// HandleValidate handles POST /proposals/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, req.Parsed())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromValidation(result))
}

// HandleGet handles GET /proposals/{proposalID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	proposalID, err := id.ParseProposalID(chi.URLParam(r, "proposalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Get(ctx, proposalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleList handles GET /proposals?status=IN_REVIEW.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st, err := status.Parse(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ListByStatus(ctx, st)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	responses := make([]*ProposalResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, FromRecord(record))
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Proposals: responses})
}

// HandleChangeStatus handles POST /proposals/{proposalID}/status.
func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	proposalID, err := id.ParseProposalID(chi.URLParam(r, "proposalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	role, err := status.ParseRole(requestcontext.Role(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "token carries no recognized lifecycle role"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ChangeStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.ChangeStatus(ctx, proposalID, req.ParsedStatus(), role, requestcontext.ActorID(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) && result != nil && len(result.Errors) > 0 {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, FromValidation(result))
			return
		}
		h.logger.ErrorContext(ctx, "status change failed",
			"request_id", requestID,
			"proposal_id", proposalID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status changed",
		"request_id", requestID,
		"proposal_id", proposalID.String(),
		"status", req.ParsedStatus(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, StatusChangeResponse{
		Status:   string(req.ParsedStatus()),
		Warnings: result.Warnings,
	})
}

// HandleAnalyze handles POST /proposals/{proposalID}/analysis.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	proposalID, err := id.ParseProposalID(chi.URLParam(r, "proposalID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Analyze(ctx, proposalID)
	if err != nil {
		h.logger.WarnContext(ctx, "credit analysis rejected",
			"request_id", requestID,
			"proposal_id", proposalID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
