package handler

import (
	"time"

	"crivo/internal/pricing"
)

// SimulationResponse is the HTTP response for POST /simulations.
type SimulationResponse struct {
	AmountCents    int64   `json:"amount_cents"`
	TermMonths     int     `json:"term_months"`
	MonthlyRatePct float64 `json:"monthly_rate_pct"`
	AnnualRatePct  float64 `json:"annual_rate_pct"`

	IOF                 IOFResponse `json:"iof"`
	TACCents            int64       `json:"tac_cents"`
	TotalFinancedCents  int64       `json:"total_financed_cents"`
	InstallmentCents    int64       `json:"installment_cents"`
	EffectiveAnnualPct  float64     `json:"effective_annual_cost_pct"`
	TotalPayableCents   int64       `json:"total_payable_cents"`
	TotalOperationCents int64       `json:"total_operation_cents"`

	Schedule []ScheduleEntryResponse `json:"schedule"`
}

// IOFResponse breaks the tax into its daily and flat components.
type IOFResponse struct {
	DailyCents      int64 `json:"daily_cents"`
	AdditionalCents int64 `json:"additional_cents"`
	TotalCents      int64 `json:"total_cents"`
}

// ScheduleEntryResponse is one row of the amortization schedule. Decimal
// amounts are serialized as strings to preserve the two-place scale.
type ScheduleEntryResponse struct {
	Period    int       `json:"period"`
	DueDate   time.Time `json:"due_date"`
	Payment   string    `json:"payment"`
	Interest  string    `json:"interest"`
	Principal string    `json:"principal"`
	Balance   string    `json:"balance"`
}

// FromSimulation converts a simulation to its HTTP representation.
func FromSimulation(s *pricing.Simulation) *SimulationResponse {
	schedule := make([]ScheduleEntryResponse, 0, len(s.Schedule))
	for _, entry := range s.Schedule {
		schedule = append(schedule, ScheduleEntryResponse{
			Period:    entry.Period,
			DueDate:   entry.DueDate,
			Payment:   entry.Payment.StringFixed(2),
			Interest:  entry.Interest.StringFixed(2),
			Principal: entry.Principal.StringFixed(2),
			Balance:   entry.Balance.StringFixed(2),
		})
	}

	return &SimulationResponse{
		AmountCents:         s.Amount.Cents(),
		TermMonths:          s.TermMonths,
		MonthlyRatePct:      s.MonthlyRatePct,
		AnnualRatePct:       s.AnnualRatePct,
		IOF: IOFResponse{
			DailyCents:      s.IOF.Daily.Cents(),
			AdditionalCents: s.IOF.Additional.Cents(),
			TotalCents:      s.IOF.Total.Cents(),
		},
		TACCents:            s.TAC.Cents(),
		TotalFinancedCents:  s.TotalFinanced.Cents(),
		InstallmentCents:    s.Installment.Cents(),
		EffectiveAnnualPct:  s.EffectiveCost,
		TotalPayableCents:   s.TotalPayable.Cents(),
		TotalOperationCents: s.TotalOperation.Cents(),
		Schedule:            schedule,
	}
}
