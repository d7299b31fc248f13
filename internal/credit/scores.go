package credit

import (
	"crivo/internal/proposal/models"
	vo "crivo/pkg/valueobject"
)

// Sub-score ceilings. The composite score is their sum before modifiers.
const (
	incomeScoreMax  = 300
	bureauScoreMax  = 250
	historyScoreMax = 250
	debtScoreMax    = 200
)

// incomeScore rates the requested commitment against declared income using a
// flat twelve-month installment of the requested amount. The real installment
// with interest is higher; the cross-field validation warnings cover that.
func incomeScore(income *vo.Money, amount vo.Money) int {
	if income == nil || income.IsZero() {
		return 0
	}

	installment := amount.Div(12)
	ratio := installment.Reais() / income.Reais()

	switch {
	case ratio <= 0.15:
		return incomeScoreMax
	case ratio <= 0.25:
		return 250
	case ratio <= 0.35:
		return 200
	case ratio <= 0.5:
		return 150
	default:
		return 50
	}
}

// bureauScore maps the external bureau score (0-1000 scale) into bands. A
// missing score is neutral-low, not zero: absence of bureau data is common for
// thin-file clients and should not alone sink the analysis.
func bureauScore(score *int) int {
	if score == nil {
		return 100
	}

	switch {
	case *score >= 800:
		return bureauScoreMax
	case *score >= 700:
		return 200
	case *score >= 600:
		return 150
	case *score >= 500:
		return 100
	case *score >= 400:
		return 50
	default:
		return 0
	}
}

// paymentHistoryScore rates past payment behavior. On-time payments add,
// late payments subtract, defaults subtract hard. A small recency bonus
// rewards a clean recent streak over the last six entries.
func paymentHistoryScore(history []models.PaymentRecord) int {
	if len(history) == 0 {
		return 125
	}

	var onTime, late, defaulted int
	for _, rec := range history {
		switch rec.Status {
		case models.PaymentOnTime:
			onTime++
		case models.PaymentLate:
			late++
		case models.PaymentDefaulted:
			defaulted++
		}
	}

	total := float64(len(history))
	score := 200.0*float64(onTime)/total -
		50.0*float64(late)/total -
		150.0*float64(defaulted)/total

	recent := history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	recentOnTime := 0
	for _, rec := range recent {
		if rec.Status == models.PaymentOnTime {
			recentOnTime++
		}
	}
	score += 50.0 * float64(recentOnTime) / float64(len(recent))

	if score < 0 {
		return 0
	}
	if score > historyScoreMax {
		return historyScoreMax
	}
	return int(score)
}

// debtBurdenScore rates the ratio of active debt to monthly income. No debts
// is the best outcome; debts with unknown income score a flat conservative
// value because the ratio cannot be computed.
func debtBurdenScore(debts []models.Debt, income *vo.Money) int {
	active := vo.Zero()
	for _, d := range debts {
		if d.Status == models.DebtActive {
			active = active.Add(d.Amount)
		}
	}

	if active.IsZero() {
		return debtScoreMax
	}
	if income == nil || income.IsZero() {
		return 50
	}

	ratio := active.Reais() / income.Reais()
	switch {
	case ratio <= 0.2:
		return debtScoreMax
	case ratio <= 0.35:
		return 150
	case ratio <= 0.5:
		return 100
	case ratio <= 0.7:
		return 50
	default:
		return 0
	}
}
