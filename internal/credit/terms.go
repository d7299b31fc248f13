package credit

import (
	pstrings "crivo/pkg/platform/strings"
	vo "crivo/pkg/valueobject"
)

// fallbackAnnualRatePct is used when the commercial table carries no base rate.
const fallbackAnnualRatePct = 24.0

// applyAdjustedTerms fills the risk-adjusted counter-offer on the result:
// approved limit, suggested rate, maximum term and required guarantees, all
// scaled by the risk category.
func applyAdjustedTerms(result *Result, input Input, risk RiskCategory) {
	limit := input.RequestedAmount.Mul(limitFactor(risk))
	result.ApprovedLimit = &limit

	base := input.CommercialTable.AnnualRatePct
	if base == 0 {
		base = fallbackAnnualRatePct
	}
	rate := base * rateFactor(risk)
	result.SuggestedRatePct = &rate

	maxTerm := input.RequestedTermMonths
	switch risk {
	case RiskHigh:
		maxTerm = min(maxTerm, 24)
	case RiskCritical:
		maxTerm = min(maxTerm, 12)
	}
	result.MaxTermMonths = &maxTerm

	result.RequiredGuarantees = requiredGuarantees(risk, input.RequestedAmount)
}

func limitFactor(risk RiskCategory) float64 {
	switch risk {
	case RiskHigh:
		return 0.7
	case RiskCritical:
		return 0.4
	default:
		return 1.0
	}
}

func rateFactor(risk RiskCategory) float64 {
	switch risk {
	case RiskMedium:
		return 1.2
	case RiskHigh:
		return 1.5
	case RiskCritical:
		return 2.0
	default:
		return 1.0
	}
}

func requiredGuarantees(risk RiskCategory, amount vo.Money) []string {
	if risk == RiskCritical {
		return []string{"real collateral", "joint guarantor", "life insurance"}
	}

	var guarantees []string
	if risk == RiskHigh {
		guarantees = append(guarantees, "guarantor", "updated proof of income")
	}
	if amount.GreaterThan(hugeAmountFloor) {
		guarantees = append(guarantees, "guarantor", "updated proof of income")
	}
	if len(guarantees) == 0 {
		return nil
	}
	return pstrings.DedupeAndTrim(guarantees)
}
