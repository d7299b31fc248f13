// Package pricing implements the financial math behind a loan simulation:
// Price-table installments, IOF, TAC, the effective total cost (CET) and the
// payment schedule. Methodology follows Banco Central regulation for personal
// credit operations.
package pricing

import (
	"math"

	dErrors "crivo/pkg/domain-errors"
	vo "crivo/pkg/valueobject"
)

// Official IOF rates for individuals.
const (
	iofDailyRate      = 0.000082 // 0.0082% per day
	iofAdditionalRate = 0.0038   // 0.38% flat on the principal

	// Regulatory cap on the day count used for the daily IOF portion.
	iofMaxDays = 365
)

// Installment computes the fixed monthly payment for the given principal using
// the Price table: PMT = PV * i(1+i)^n / ((1+i)^n - 1). A non-positive rate
// splits the principal evenly.
func Installment(principal vo.Money, monthlyRatePct float64, termMonths int) (vo.Money, error) {
	if termMonths <= 0 {
		return vo.Money{}, dErrors.New(dErrors.CodeInvalidInput, "term must be greater than zero")
	}
	if !principal.IsPositive() {
		return vo.Money{}, dErrors.New(dErrors.CodeInvalidInput, "principal must be greater than zero")
	}

	if monthlyRatePct <= 0 {
		return principal.Div(int64(termMonths)), nil
	}

	i := monthlyRatePct / 100
	factor := math.Pow(1+i, float64(termMonths))
	payment := principal.Reais() * i * factor / (factor - 1)
	return vo.FromReais(payment), nil
}

// IOF is the tax breakdown for a credit operation.
type IOF struct {
	Daily      vo.Money
	Additional vo.Money
	Total      vo.Money
}

// ComputeIOF applies the daily rate over the operation day count (30 days per
// month plus grace, capped at the regulatory maximum) and the flat additional
// rate over the principal.
func ComputeIOF(principal vo.Money, termMonths, graceDays int) IOF {
	days := termMonths*30 + graceDays
	if days > iofMaxDays {
		days = iofMaxDays
	}

	daily := principal.Mul(iofDailyRate * float64(days))
	additional := principal.Mul(iofAdditionalRate)

	return IOF{
		Daily:      daily,
		Additional: additional,
		Total:      daily.Add(additional),
	}
}

// TACKind selects how the credit opening fee is charged.
type TACKind string

const (
	TACFixed      TACKind = "FIXED"
	TACPercentage TACKind = "PERCENTAGE"
)

// TACPolicy describes the credit opening fee: a flat amount or a percentage of
// the principal.
type TACPolicy struct {
	Kind TACKind

	// Amount is the flat fee, used when Kind is FIXED.
	Amount vo.Money

	// Pct is the fee as a percentage of the principal, used when Kind is
	// PERCENTAGE.
	Pct float64
}

// ComputeTAC resolves the policy against the principal.
func ComputeTAC(policy TACPolicy, principal vo.Money) vo.Money {
	if policy.Kind == TACPercentage {
		return principal.Percentage(policy.Pct)
	}
	return policy.Amount
}

// EffectiveAnnualCostPct computes the CET: the annualized rate that equates
// the present value of all installments to the net amount the client actually
// receives. The IOF is financed alongside the principal and therefore not
// deducted from the net amount; only the TAC and other upfront charges are.
//
// The monthly rate is found by Newton-Raphson on the present-value function,
// converging when the present value is within one cent of the net amount.
func EffectiveAnnualCostPct(principal, installment vo.Money, termMonths int, tac, otherCharges vo.Money) float64 {
	net := principal.Sub(tac).Sub(otherCharges).Reais()
	payment := installment.Reais()
	totalPaid := payment * float64(termMonths)

	rate := (totalPaid - net) / (net * float64(termMonths))

	for iter := 0; iter < 100; iter++ {
		presentValue := 0.0
		derivative := 0.0

		for month := 1; month <= termMonths; month++ {
			factor := math.Pow(1+rate, float64(month))
			presentValue += payment / factor
			derivative -= float64(month) * payment / (factor * (1 + rate))
		}

		diff := presentValue - net
		if math.Abs(diff) < 0.01 {
			break
		}

		rate -= diff / derivative

		// Keep the iterate inside (0, 1) so the power terms stay finite.
		if rate < 0 {
			rate = 0.001
		}
		if rate > 1 {
			rate = 0.999
		}
	}

	annual := (math.Pow(1+rate, 12) - 1) * 100
	return math.Round(annual*100) / 100
}

// AnnualFromMonthlyPct converts a monthly compound rate to its annual
// equivalent, both in percent.
func AnnualFromMonthlyPct(monthlyPct float64) float64 {
	return (math.Pow(1+monthlyPct/100, 12) - 1) * 100
}
