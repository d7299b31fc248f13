package valueobject

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MoneySuite struct {
	suite.Suite
}

func TestMoneySuite(t *testing.T) {
	suite.Run(t, new(MoneySuite))
}

func (s *MoneySuite) TestParseMoney() {
	s.Run("accepts brazilian and plain notations", func() {
		cases := map[string]int64{
			"R$ 1.234,56": 123456,
			"1.234,56":    123456,
			"1234,56":     123456,
			"1234.56":     123456,
			"1234":        123400,
			"0,01":        1,
			"R$ 0,00":     0,
		}
		for raw, cents := range cases {
			m, err := ParseMoney(raw)
			s.Require().NoError(err, raw)
			s.Equal(cents, m.Cents(), raw)
		}
	})

	s.Run("rejects malformed and negative input", func() {
		for _, raw := range []string{"", "   ", "abc", "12,34,56", "-10,00", "R$ -5"} {
			_, err := ParseMoney(raw)
			s.Error(err, "%q", raw)
		}
	})

	s.Run("round-trips through String", func() {
		for _, cents := range []int64{0, 1, 99, 100, 123456, 100000000} {
			m := FromCents(cents)
			parsed, err := ParseMoney(m.String())
			s.Require().NoError(err, m.String())
			s.Equal(cents, parsed.Cents())
		}
	})
}

func (s *MoneySuite) TestArithmetic() {
	s.Run("add and sub are inverse", func() {
		a := FromCents(123456)
		b := FromCents(78901)
		s.Equal(a, a.Add(b).Sub(b))
	})

	s.Run("mul rounds to nearest cent", func() {
		s.Equal(int64(333), FromCents(1000).Mul(1.0/3).Cents())
		s.Equal(int64(50), FromCents(100).Mul(0.5).Cents())
	})

	s.Run("div rounds to nearest cent", func() {
		s.Equal(int64(83333), FromReais(10_000).Div(12).Cents())
	})

	s.Run("percentage", func() {
		s.Equal(int64(38), FromReais(100).Percentage(0.38).Cents())
		s.Equal(FromReais(10), FromReais(100).Percentage(10))
	})
}

func (s *MoneySuite) TestComparisonsAndFormat() {
	s.True(FromCents(1).IsPositive())
	s.True(FromCents(-1).IsNegative())
	s.True(Zero().IsZero())
	s.True(FromCents(200).GreaterThan(FromCents(100)))
	s.True(FromCents(100).LessThan(FromCents(200)))
	s.True(FromCents(100).Equal(FromCents(100)))

	s.Equal("R$ 1.234,56", FromCents(123456).String())
	s.Equal("R$ 0,05", FromCents(5).String())
	s.Equal("-R$ 10,00", FromCents(-1000).String())
	s.Equal("R$ 1.000.000,00", FromReais(1_000_000).String())
}
