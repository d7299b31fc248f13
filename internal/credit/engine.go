package credit

import (
	"strconv"

	"crivo/internal/proposal/models"
	"crivo/internal/proposal/rules"
	vo "crivo/pkg/valueobject"
)

// Score bounds and decision thresholds.
const (
	maxScore = 1000

	partialApprovalFloor = 400

	baseApprovalThreshold    = 600
	securedApprovalThreshold = 400

	// Large-amount threshold increments. Non-cumulative: only the larger
	// applicable bracket applies.
	largeAmountIncrement = 100
	hugeAmountIncrement  = 200
)

var (
	largeAmountFloor = vo.FromReais(50_000)
	hugeAmountFloor  = vo.FromReais(100_000)
)

// Engine evaluates credit risk for proposal snapshots. The economic risk
// factor is injected at construction so analysis stays deterministic under
// test; it is never read from global state.
type Engine struct {
	limits             rules.Limits
	economicRiskFactor int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithEconomicRiskFactor injects the macro-level score adjustment. Negative
// values tighten the analysis.
func WithEconomicRiskFactor(factor int) Option {
	return func(e *Engine) {
		e.economicRiskFactor = factor
	}
}

// NewEngine constructs an Engine with the given product limits.
func NewEngine(limits rules.Limits, opts ...Option) *Engine {
	e := &Engine{limits: limits}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full scoring pipeline over the input.
//
// Two conditions short-circuit scoring entirely: an invalid CPF and a
// violation of the product amount/term limits. Both yield score 0, CRITICAL
// risk, and no approval.
func (e *Engine) Analyze(input Input) *Result {
	if !vo.CPFIsValid(input.ClientCPF) {
		return &Result{
			Approved:     false,
			Score:        0,
			Risk:         RiskCritical,
			Observations: []string{"invalid CPF"},
			Restrictions: []string{"invalid identification document"},
		}
	}

	if restrictions := e.checkProductLimits(input); len(restrictions) > 0 {
		return &Result{
			Approved:     false,
			Score:        0,
			Risk:         RiskCritical,
			Restrictions: restrictions,
		}
	}

	score := incomeScore(input.MonthlyIncome, input.RequestedAmount) +
		bureauScore(input.BureauScore) +
		paymentHistoryScore(input.PaymentHistory) +
		debtBurdenScore(input.Debts, input.MonthlyIncome)

	adjustment, observations := e.riskModifiers(input.Product.Category)
	score = clampScore(score + adjustment)

	risk := riskCategory(score)
	approved := score >= approvalThreshold(input.Product.Category, input.RequestedAmount)

	result := &Result{
		Approved:     approved,
		Score:        score,
		Risk:         risk,
		Observations: observations,
	}

	if approved || score >= partialApprovalFloor {
		applyAdjustedTerms(result, input, risk)
	}

	return result
}

func (e *Engine) checkProductLimits(input Input) []string {
	var restrictions []string

	if !input.Product.Active {
		restrictions = append(restrictions, "product is not active")
	}

	if input.RequestedAmount.LessThan(e.limits.MinAmount) {
		restrictions = append(restrictions, "minimum amount: "+e.limits.MinAmount.String())
	}
	if input.RequestedAmount.GreaterThan(e.limits.MaxAmount) {
		restrictions = append(restrictions, "maximum amount: "+e.limits.MaxAmount.String())
	}

	if input.RequestedTermMonths < e.limits.MinTermMonths {
		restrictions = append(restrictions, "minimum term: "+strconv.Itoa(e.limits.MinTermMonths)+" months")
	}
	if input.RequestedTermMonths > e.limits.MaxTermMonths {
		restrictions = append(restrictions, "maximum term: "+strconv.Itoa(e.limits.MaxTermMonths)+" months")
	}

	return restrictions
}

// riskModifiers returns the category and economic adjustments applied on top
// of the summed sub-scores.
func (e *Engine) riskModifiers(category models.Category) (int, []string) {
	adjustment := 0
	var observations []string

	switch category {
	case models.CategoryRevolving:
		adjustment -= 50
		observations = append(observations, "revolving credit product - increased risk")
	case models.CategoryCollateralized:
		adjustment += 100
		observations = append(observations, "secured loan - reduced risk")
	}

	adjustment += e.economicRiskFactor
	if e.economicRiskFactor < 0 {
		observations = append(observations, "adverse economic conditions considered in the analysis")
	}

	return adjustment, observations
}

func riskCategory(score int) RiskCategory {
	switch {
	case score >= 750:
		return RiskLow
	case score >= 600:
		return RiskMedium
	case score >= 400:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func approvalThreshold(category models.Category, amount vo.Money) int {
	threshold := baseApprovalThreshold
	if category == models.CategoryCollateralized {
		threshold = securedApprovalThreshold
	}

	switch {
	case amount.GreaterThan(hugeAmountFloor):
		threshold += hugeAmountIncrement
	case amount.GreaterThan(largeAmountFloor):
		threshold += largeAmountIncrement
	}

	return threshold
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
