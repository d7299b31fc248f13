package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	vo "crivo/pkg/valueobject"
)

type PricingSuite struct {
	suite.Suite
}

func TestPricingSuite(t *testing.T) {
	suite.Run(t, new(PricingSuite))
}

func (s *PricingSuite) TestInstallment() {
	s.Run("price table payment", func() {
		payment, err := Installment(vo.FromReais(10_000), 2.0, 12)
		s.Require().NoError(err)
		s.InDelta(945.60, payment.Reais(), 0.01)
	})

	s.Run("zero rate splits evenly", func() {
		payment, err := Installment(vo.FromReais(12_000), 0, 12)
		s.Require().NoError(err)
		s.Equal(vo.FromReais(1_000), payment)
	})

	s.Run("rejects invalid input", func() {
		_, err := Installment(vo.FromReais(10_000), 2.0, 0)
		s.Error(err)
		_, err = Installment(vo.Zero(), 2.0, 12)
		s.Error(err)
	})
}

func (s *PricingSuite) TestComputeIOF() {
	s.Run("twelve month operation", func() {
		iof := ComputeIOF(vo.FromReais(10_000), 12, 0)
		// Daily: 0.0082% over 360 days. Additional: 0.38% flat.
		s.Equal(int64(29520), iof.Daily.Cents())
		s.Equal(int64(3800), iof.Additional.Cents())
		s.Equal(int64(33320), iof.Total.Cents())
	})

	s.Run("day count is capped at one year", func() {
		iof := ComputeIOF(vo.FromReais(10_000), 24, 30)
		s.Equal(int64(29930), iof.Daily.Cents()) // 365 days, not 750
	})

	s.Run("grace days extend the count below the cap", func() {
		short := ComputeIOF(vo.FromReais(10_000), 6, 0)
		withGrace := ComputeIOF(vo.FromReais(10_000), 6, 30)
		s.True(withGrace.Daily.GreaterThan(short.Daily))
	})
}

func (s *PricingSuite) TestComputeTAC() {
	s.Run("fixed fee", func() {
		tac := ComputeTAC(TACPolicy{Kind: TACFixed, Amount: vo.FromReais(500)}, vo.FromReais(10_000))
		s.Equal(vo.FromReais(500), tac)
	})

	s.Run("percentage of principal", func() {
		tac := ComputeTAC(TACPolicy{Kind: TACPercentage, Pct: 2}, vo.FromReais(10_000))
		s.Equal(vo.FromReais(200), tac)
	})
}

func (s *PricingSuite) TestEffectiveAnnualCostPct() {
	s.Run("without charges the cost matches the nominal rate", func() {
		payment, err := Installment(vo.FromReais(10_000), 2.0, 12)
		s.Require().NoError(err)

		cet := EffectiveAnnualCostPct(vo.FromReais(10_000), payment, 12, vo.Zero(), vo.Zero())
		s.InDelta(AnnualFromMonthlyPct(2.0), cet, 0.1)
	})

	s.Run("financed taxes and fees raise the cost above the nominal rate", func() {
		sim, err := Simulate(SimulationInput{
			Amount:         vo.FromReais(10_000),
			TermMonths:     12,
			MonthlyRatePct: 2.0,
			TAC:            TACPolicy{Kind: TACFixed, Amount: vo.FromReais(350)},
		})
		s.Require().NoError(err)

		s.Greater(sim.EffectiveCost, AnnualFromMonthlyPct(2.0))
		s.Less(sim.EffectiveCost, 60.0)
	})
}

func (s *PricingSuite) TestPaymentSchedule() {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	financed := vo.FromReais(10_000)
	payment, err := Installment(financed, 2.0, 12)
	s.Require().NoError(err)

	schedule := PaymentSchedule(financed, payment, 12, 2.0, start)
	s.Require().Len(schedule, 12)

	s.Run("balance closes at exactly zero", func() {
		s.True(schedule[len(schedule)-1].Balance.IsZero())
	})

	s.Run("due dates advance monthly", func() {
		s.Equal(start.AddDate(0, 1, 0), schedule[0].DueDate)
		s.Equal(start.AddDate(0, 12, 0), schedule[11].DueDate)
	})

	s.Run("first period interest is rate times principal", func() {
		s.True(schedule[0].Interest.Equal(decimal.NewFromFloat(200.00)), schedule[0].Interest.String())
	})

	s.Run("amortized principal sums to the financed amount", func() {
		total := decimal.Zero
		for _, entry := range schedule {
			total = total.Add(entry.Principal)
		}
		s.True(total.Equal(decimal.New(financed.Cents(), -2)), total.String())
	})

	s.Run("empty schedule for invalid input", func() {
		s.Nil(PaymentSchedule(vo.Zero(), payment, 12, 2.0, start))
		s.Nil(PaymentSchedule(financed, payment, 0, 2.0, start))
	})
}

func (s *PricingSuite) TestSimulate() {
	sim, err := Simulate(SimulationInput{
		Amount:         vo.FromReais(10_000),
		TermMonths:     12,
		MonthlyRatePct: 2.0,
		TAC:            TACPolicy{Kind: TACPercentage, Pct: 2},
		StartDate:      time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	s.Equal(vo.FromReais(200), sim.TAC)
	s.Equal(int64(33320), sim.IOF.Total.Cents())
	s.Equal(vo.FromReais(10_533.20), sim.TotalFinanced)
	s.Len(sim.Schedule, 12)
	s.Equal(sim.Installment.Mul(12), sim.TotalPayable)
	s.Equal(sim.TotalPayable.Sub(sim.Amount), sim.TotalOperation)
	s.InDelta(26.82, sim.AnnualRatePct, 0.01)

	s.Run("rejects invalid input", func() {
		_, err := Simulate(SimulationInput{Amount: vo.FromReais(10_000), TermMonths: 0, MonthlyRatePct: 2})
		s.Error(err)
		_, err = Simulate(SimulationInput{Amount: vo.Zero(), TermMonths: 12, MonthlyRatePct: 2})
		s.Error(err)
		_, err = Simulate(SimulationInput{Amount: vo.FromReais(10_000), TermMonths: 12, MonthlyRatePct: -1})
		s.Error(err)
	})
}
