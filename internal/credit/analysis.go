// Package credit computes the multi-factor risk score and approval decision
// for a loan proposal. The engine is pure: fixed input (including the
// injected economic risk factor) always yields an identical result.
package credit

import (
	"crivo/internal/proposal/models"
	vo "crivo/pkg/valueobject"
)

// RiskCategory is the risk tier derived from the composite score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "LOW"
	RiskMedium   RiskCategory = "MEDIUM"
	RiskHigh     RiskCategory = "HIGH"
	RiskCritical RiskCategory = "CRITICAL"
)

// Input is the snapshot the engine scores. Optional fields are nil when the
// upstream collectors could not supply them; the engine falls back to neutral
// sub-scores instead of failing.
type Input struct {
	ClientCPF           string
	RequestedAmount     vo.Money
	RequestedTermMonths int

	MonthlyIncome  *vo.Money
	BureauScore    *int
	PaymentHistory []models.PaymentRecord
	Debts          []models.Debt

	Product         models.Product
	CommercialTable models.CommercialTable
}

// Result is the analysis outcome. Immutable once returned; the JSON shape is
// what stores persist and the API returns.
type Result struct {
	Approved     bool         `json:"approved"`
	Score        int          `json:"score"`
	Risk         RiskCategory `json:"risk"`
	Observations []string     `json:"observations,omitempty"`
	Restrictions []string     `json:"restrictions,omitempty"`

	// Adjusted terms, populated when approved or within the partial-approval
	// band (score >= 400).
	ApprovedLimit      *vo.Money `json:"approved_limit,omitempty"`
	SuggestedRatePct   *float64  `json:"suggested_rate_pct,omitempty"`
	MaxTermMonths      *int      `json:"max_term_months,omitempty"`
	RequiredGuarantees []string  `json:"required_guarantees,omitempty"`
}
