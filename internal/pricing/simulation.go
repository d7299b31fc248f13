package pricing

import (
	"time"

	dErrors "crivo/pkg/domain-errors"
	vo "crivo/pkg/valueobject"
)

// SimulationInput describes a loan simulation request.
type SimulationInput struct {
	Amount         vo.Money
	TermMonths     int
	MonthlyRatePct float64
	TAC            TACPolicy
	GraceDays      int
	StartDate      time.Time
}

// Simulation is the full quote: taxes, fees, installment, effective cost and
// the payment schedule.
type Simulation struct {
	Amount         vo.Money
	TermMonths     int
	MonthlyRatePct float64
	AnnualRatePct  float64

	IOF            IOF
	TAC            vo.Money
	TotalFinanced  vo.Money
	Installment    vo.Money
	EffectiveCost  float64
	TotalPayable   vo.Money
	TotalOperation vo.Money

	Schedule []ScheduleEntry
}

// Simulate runs the full quote pipeline: IOF and TAC are financed on top of
// the requested amount, the installment is computed over the financed total,
// and the CET is derived from what the client effectively receives.
func Simulate(input SimulationInput) (*Simulation, error) {
	if input.TermMonths <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "term must be greater than zero")
	}
	if !input.Amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "amount must be greater than zero")
	}
	if input.MonthlyRatePct < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rate cannot be negative")
	}

	iof := ComputeIOF(input.Amount, input.TermMonths, input.GraceDays)
	tac := ComputeTAC(input.TAC, input.Amount)
	financed := input.Amount.Add(iof.Total).Add(tac)

	installment, err := Installment(financed, input.MonthlyRatePct, input.TermMonths)
	if err != nil {
		return nil, err
	}

	cet := EffectiveAnnualCostPct(input.Amount, installment, input.TermMonths, tac, vo.Zero())

	start := input.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	totalPayable := installment.Mul(float64(input.TermMonths))

	return &Simulation{
		Amount:         input.Amount,
		TermMonths:     input.TermMonths,
		MonthlyRatePct: input.MonthlyRatePct,
		AnnualRatePct:  AnnualFromMonthlyPct(input.MonthlyRatePct),
		IOF:            iof,
		TAC:            tac,
		TotalFinanced:  financed,
		Installment:    installment,
		EffectiveCost:  cet,
		TotalPayable:   totalPayable,
		TotalOperation: totalPayable.Sub(input.Amount),
		Schedule:       PaymentSchedule(financed, installment, input.TermMonths, input.MonthlyRatePct, start),
	}, nil
}
