package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	jwttoken "crivo/internal/jwt_token"
	"crivo/internal/proposal/catalog"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/status"
	id "crivo/pkg/domain"
	dErrors "crivo/pkg/domain-errors"
	"crivo/pkg/platform/httputil"
	"crivo/pkg/requestcontext"
)

// AdminHandler manages the product catalog and issues access tokens. Every
// route is gated by the admin token middleware.
type AdminHandler struct {
	catalog *catalog.InMemoryCatalog
	tokens  *jwttoken.JWTService
	logger  *slog.Logger
}

// NewAdminHandler constructs the admin surface.
func NewAdminHandler(cat *catalog.InMemoryCatalog, tokens *jwttoken.JWTService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		catalog: cat,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register mounts admin endpoints on the router.
func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/products", h.HandleAddProduct)
	r.Post("/commercial-tables", h.HandleAddCommercialTable)
	r.Post("/tokens", h.HandleIssueToken)
}

// ProductRequest is the HTTP request body for POST /admin/products.
type ProductRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Active   bool   `json:"active"`

	parsed models.Product
}

// Validate parses the product definition. Implements httputil.Validator.
func (r *ProductRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	category, err := models.ParseCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return err
	}

	productID := id.ProductID(uuid.New())
	if r.ID != "" {
		productID, err = id.ParseProductID(r.ID)
		if err != nil {
			return err
		}
	}

	r.parsed = models.Product{
		ID:       productID,
		Name:     strings.TrimSpace(r.Name),
		Category: category,
		Active:   r.Active,
	}
	return nil
}

// HandleAddProduct handles POST /admin/products.
func (h *AdminHandler) HandleAddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProductRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.catalog.AddProduct(req.parsed)
	h.logger.InfoContext(ctx, "product registered",
		"request_id", requestID,
		"product_id", req.parsed.ID.String(),
		"category", req.parsed.Category,
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": req.parsed.ID.String()})
}

// CommercialTableRequest is the HTTP request body for POST /admin/commercial-tables.
type CommercialTableRequest struct {
	ID                string  `json:"id,omitempty"`
	PartnerID         string  `json:"partner_id,omitempty"`
	AnnualRatePct     float64 `json:"annual_rate_pct"`
	MonthlyRatePct    float64 `json:"monthly_rate_pct"`
	CommissionPct     float64 `json:"commission_pct,omitempty"`
	AllowedTermMonths []int   `json:"allowed_term_months,omitempty"`

	parsed models.CommercialTable
}

// Validate parses the table definition. Implements httputil.Validator.
func (r *CommercialTableRequest) Validate() error {
	if r.AnnualRatePct < 0 || r.MonthlyRatePct < 0 {
		return dErrors.New(dErrors.CodeValidation, "rates cannot be negative")
	}

	tableID := id.CommercialTableID(uuid.New())
	var err error
	if r.ID != "" {
		tableID, err = id.ParseCommercialTableID(r.ID)
		if err != nil {
			return err
		}
	}

	table := models.CommercialTable{
		ID:                tableID,
		AnnualRatePct:     r.AnnualRatePct,
		MonthlyRatePct:    r.MonthlyRatePct,
		CommissionPct:     r.CommissionPct,
		AllowedTermMonths: r.AllowedTermMonths,
	}
	if r.PartnerID != "" {
		table.PartnerID, err = id.ParsePartnerID(r.PartnerID)
		if err != nil {
			return err
		}
	}

	r.parsed = table
	return nil
}

// HandleAddCommercialTable handles POST /admin/commercial-tables.
func (h *AdminHandler) HandleAddCommercialTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CommercialTableRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	h.catalog.AddCommercialTable(req.parsed)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"id": req.parsed.ID.String()})
}

// TokenRequest is the HTTP request body for POST /admin/tokens.
type TokenRequest struct {
	ActorID   string `json:"actor_id"`
	Role      string `json:"role"`
	ExpiresIn string `json:"expires_in,omitempty"`

	ttl time.Duration
}

// Validate checks the actor and role. Implements httputil.Validator.
func (r *TokenRequest) Validate() error {
	if strings.TrimSpace(r.ActorID) == "" {
		return dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	if _, err := status.ParseRole(strings.TrimSpace(r.Role)); err != nil {
		return err
	}

	r.ttl = time.Hour
	if r.ExpiresIn != "" {
		ttl, err := time.ParseDuration(r.ExpiresIn)
		if err != nil || ttl <= 0 {
			return dErrors.New(dErrors.CodeValidation, "expires_in must be a positive duration")
		}
		r.ttl = ttl
	}
	return nil
}

// HandleIssueToken handles POST /admin/tokens.
func (h *AdminHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, err := h.tokens.GenerateAccessToken(strings.TrimSpace(req.ActorID), strings.TrimSpace(req.Role), req.ttl)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "token generation failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"access_token": token})
}
