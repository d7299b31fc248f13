// Package handler exposes loan simulation over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crivo/internal/pricing"
	audit "crivo/pkg/platform/audit"
	"crivo/pkg/platform/httputil"
	"crivo/pkg/requestcontext"
)

// AuditPort emits audit events.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler wires simulation endpoints to the pricing package.
type Handler struct {
	logger  *slog.Logger
	auditor AuditPort
}

// New constructs a pricing handler. The auditor may be nil.
func New(logger *slog.Logger, auditor AuditPort) *Handler {
	return &Handler{
		logger:  logger,
		auditor: auditor,
	}
}

// Register mounts simulation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/simulations", h.HandleSimulate)
}

// HandleSimulate handles POST /simulations.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SimulationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	simulation, err := pricing.Simulate(req.Parsed())
	if err != nil {
		h.logger.WarnContext(ctx, "simulation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if h.auditor != nil {
		event := audit.Event{
			Action:    string(audit.EventSimulationRun),
			Actor:     requestcontext.ActorID(ctx),
			RequestID: requestID,
		}
		if err := h.auditor.Emit(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "audit emission failed", "error", err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, FromSimulation(simulation))
}
