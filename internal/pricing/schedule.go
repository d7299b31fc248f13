package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	vo "crivo/pkg/valueobject"
)

// ScheduleEntry is one period of the payment schedule.
type ScheduleEntry struct {
	Period    int
	DueDate   time.Time
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// PaymentSchedule expands the financed amount into per-period rows. Monetary
// arithmetic runs on decimals rounded to cents per period; the final period
// absorbs accumulated rounding so the balance closes at exactly zero.
func PaymentSchedule(financed, installment vo.Money, termMonths int, monthlyRatePct float64, start time.Time) []ScheduleEntry {
	if termMonths <= 0 || !financed.IsPositive() {
		return nil
	}

	rate := decimal.NewFromFloat(monthlyRatePct / 100)
	payment := decimal.New(installment.Cents(), -2)
	balance := decimal.New(financed.Cents(), -2)

	schedule := make([]ScheduleEntry, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := balance.Mul(rate).Round(2)
		principal := payment.Sub(interest)

		if period == termMonths {
			principal = balance
			payment = principal.Add(interest)
		}

		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		schedule = append(schedule, ScheduleEntry{
			Period:    period,
			DueDate:   start.AddDate(0, period, 0),
			Payment:   payment,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}

	return schedule
}
