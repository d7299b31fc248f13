package handler

import (
	"strings"
	"time"

	"crivo/internal/pricing"
	dErrors "crivo/pkg/domain-errors"
	vo "crivo/pkg/valueobject"
)

const dateLayout = "2006-01-02"

// SimulationRequest is the HTTP request body for POST /simulations.
type SimulationRequest struct {
	AmountCents    int64      `json:"amount_cents"`
	TermMonths     int        `json:"term_months"`
	MonthlyRatePct float64    `json:"monthly_rate_pct"`
	TAC            TACPayload `json:"tac"`
	GraceDays      int        `json:"grace_days,omitempty"`
	StartDate      string     `json:"start_date,omitempty"`

	parsed pricing.SimulationInput
}

// TACPayload selects the origination fee policy.
type TACPayload struct {
	Kind        string  `json:"kind"`
	AmountCents int64   `json:"amount_cents,omitempty"`
	Pct         float64 `json:"pct,omitempty"`
}

// Validate parses the request into a simulation input. Implements
// httputil.Validator.
func (r *SimulationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.AmountCents <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount_cents must be greater than zero")
	}
	if r.TermMonths <= 0 {
		return dErrors.New(dErrors.CodeValidation, "term_months must be greater than zero")
	}
	if r.MonthlyRatePct < 0 {
		return dErrors.New(dErrors.CodeValidation, "monthly_rate_pct cannot be negative")
	}
	if r.GraceDays < 0 {
		return dErrors.New(dErrors.CodeValidation, "grace_days cannot be negative")
	}

	input := pricing.SimulationInput{
		Amount:         vo.FromCents(r.AmountCents),
		TermMonths:     r.TermMonths,
		MonthlyRatePct: r.MonthlyRatePct,
		GraceDays:      r.GraceDays,
	}

	switch strings.TrimSpace(r.TAC.Kind) {
	case "", "none":
	case "fixed":
		input.TAC = pricing.TACPolicy{Kind: pricing.TACFixed, Amount: vo.FromCents(r.TAC.AmountCents)}
	case "percentage":
		input.TAC = pricing.TACPolicy{Kind: pricing.TACPercentage, Pct: r.TAC.Pct}
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown tac.kind %q", r.TAC.Kind)
	}

	if r.StartDate != "" {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "start_date must use the %s format", dateLayout)
		}
		input.StartDate = start
	}

	r.parsed = input
	return nil
}

// Parsed returns the validated simulation input.
func (r *SimulationRequest) Parsed() pricing.SimulationInput {
	return r.parsed
}
