package handler

import (
	"time"

	"crivo/internal/credit"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/store"
)

// ProposalResponse is the HTTP representation of a proposal record.
type ProposalResponse struct {
	ID         string              `json:"id"`
	Status     string              `json:"status"`
	ClientName string              `json:"client_name"`
	ClientCPF  string              `json:"client_cpf"`
	Conditions ConditionsResponse  `json:"conditions"`
	Analysis   *credit.Result      `json:"analysis,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ConditionsResponse struct {
	AmountCents   int64    `json:"amount_cents"`
	TermMonths    int      `json:"term_months"`
	AnnualRatePct *float64 `json:"annual_rate_pct,omitempty"`
}

// FromRecord converts a stored record to its HTTP representation.
func FromRecord(record *store.ProposalRecord) *ProposalResponse {
	return &ProposalResponse{
		ID:         record.Proposal.ID.String(),
		Status:     string(record.Status),
		ClientName: record.Proposal.Client.Name,
		ClientCPF:  record.Proposal.Client.CPF,
		Conditions: ConditionsResponse{
			AmountCents:   record.Proposal.Conditions.Amount.Cents(),
			TermMonths:    record.Proposal.Conditions.TermMonths,
			AnnualRatePct: record.Proposal.Conditions.AnnualRatePct,
		},
		Analysis:  record.Analysis,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// CreateResponse is the HTTP response for POST /proposals.
type CreateResponse struct {
	Proposal *ProposalResponse `json:"proposal"`
	Warnings []string          `json:"warnings,omitempty"`
}

// ValidationResponse is the HTTP response for POST /proposals/validate and
// failed status transitions.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// FromValidation converts a rule result to its HTTP representation.
func FromValidation(result *models.ValidationResult) *ValidationResponse {
	return &ValidationResponse{
		Valid:    result.Valid(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}
}

// StatusChangeResponse is the HTTP response for POST /proposals/{id}/status.
type StatusChangeResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// ListResponse is the HTTP response for GET /proposals.
type ListResponse struct {
	Proposals []*ProposalResponse `json:"proposals"`
}
