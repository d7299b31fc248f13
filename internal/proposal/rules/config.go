package rules

import (
	vo "crivo/pkg/valueobject"
)

// Limits carries the jurisdiction-level lending constraints. They are passed
// in explicitly so the same validator can serve different currencies and
// regulatory floors under test.
type Limits struct {
	MinAmount vo.Money
	MaxAmount vo.Money

	MinTermMonths int
	MaxTermMonths int

	// MinimumWage is the income floor below which a warning is raised.
	MinimumWage vo.Money

	// AnnualRateCeilingPct flags contracted rates above this annual
	// percentage for manual review.
	AnnualRateCeilingPct float64
}

// DefaultLimits returns the production lending constraints.
func DefaultLimits() Limits {
	return Limits{
		MinAmount:            vo.FromReais(1_000),
		MaxAmount:            vo.FromReais(500_000),
		MinTermMonths:        6,
		MaxTermMonths:        84,
		MinimumWage:          vo.FromReais(1_320),
		AnnualRateCeilingPct: 60,
	}
}
