package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"crivo/internal/proposal/models"
	vo "crivo/pkg/valueobject"
)

const validCPF = "52998224725"

type ValidatorSuite struct {
	suite.Suite
	validator *Validator
	now       time.Time
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.now = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	s.validator = New(DefaultLimits(), WithClock(func() time.Time { return s.now }))
}

func (s *ValidatorSuite) birthDate(age int) *time.Time {
	d := s.now.AddDate(-age, 0, -1)
	return &d
}

func (s *ValidatorSuite) baseProposal() models.Proposal {
	income := vo.FromReais(8_000)
	return models.Proposal{
		Client: models.ClientProfile{
			Name:          "Maria Oliveira",
			CPF:           validCPF,
			Email:         "maria@example.com",
			Phone:         "11987654321",
			BirthDate:     s.birthDate(35),
			MonthlyIncome: &income,
			Address:       models.Address{CEP: "01310100"},
		},
		Conditions: models.LoanConditions{
			Amount:     vo.FromReais(20_000),
			TermMonths: 24,
		},
	}
}

func (s *ValidatorSuite) baseProduct() models.Product {
	return models.Product{Name: "Personal Loan", Category: models.CategoryPersonal, Active: true}
}

func (s *ValidatorSuite) baseTable() models.CommercialTable {
	return models.CommercialTable{AnnualRatePct: 24}
}

func (s *ValidatorSuite) TestValidProposalPasses() {
	result := s.validator.Validate(s.baseProposal(), s.baseProduct(), s.baseTable())
	s.True(result.Valid(), "errors: %v", result.Errors)
	s.Empty(result.Errors)
	s.Empty(result.Warnings)
}

func (s *ValidatorSuite) TestClientDataStage() {
	s.Run("missing name and CPF are errors", func() {
		p := s.baseProposal()
		p.Client.Name = " "
		p.Client.CPF = ""
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.False(result.Valid())
		s.Contains(result.Errors, "full name is required (minimum 2 characters)")
		s.Contains(result.Errors, "CPF is required")
	})

	s.Run("invalid CPF is an error", func() {
		p := s.baseProposal()
		p.Client.CPF = "11111111111"
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "invalid CPF")
	})

	s.Run("absent contact data warns, malformed contact data errors", func() {
		p := s.baseProposal()
		p.Client.Email = ""
		p.Client.Phone = ""
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.True(result.Valid())
		s.Contains(result.Warnings, "email not provided - communication will be limited")
		s.Contains(result.Warnings, "phone not provided - contact will be limited")

		p.Client.Email = "not-an-email"
		p.Client.Phone = "123"
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "invalid email address")
		s.Contains(result.Errors, "invalid phone number")
	})

	s.Run("minor applicant is an error, elderly applicant a warning", func() {
		p := s.baseProposal()
		p.Client.BirthDate = s.birthDate(17)
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "applicant must be of legal age (18 years)")

		p.Client.BirthDate = s.birthDate(81)
		p.Conditions.TermMonths = 6
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.True(result.Valid())
		s.Contains(result.Warnings, "applicant over 80 years old - review repayment capacity")
	})

	s.Run("age counts completed years, not calendar years", func() {
		p := s.baseProposal()
		// 18th birthday is tomorrow relative to the fixed clock.
		d := s.now.AddDate(-18, 0, 1)
		p.Client.BirthDate = &d
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "applicant must be of legal age (18 years)")
	})

	s.Run("income below minimum wage warns", func() {
		p := s.baseProposal()
		low := vo.FromReais(1_000)
		p.Client.MonthlyIncome = &low
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.True(result.Valid())
		s.Contains(result.Warnings, "monthly income below minimum wage - review income source")
	})

	s.Run("missing address warns", func() {
		p := s.baseProposal()
		p.Client.Address = models.Address{}
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Warnings, "complete postal address not provided")
	})
}

func (s *ValidatorSuite) TestFinancialConditionsStage() {
	s.Run("non-positive amount and term", func() {
		p := s.baseProposal()
		p.Conditions.Amount = vo.Zero()
		p.Conditions.TermMonths = 0
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "requested amount must be greater than zero")
		s.Contains(result.Errors, "requested term must be greater than zero")
	})

	s.Run("amount outside limits", func() {
		p := s.baseProposal()
		p.Conditions.Amount = vo.FromReais(500)
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "minimum amount: R$ 1.000,00")

		p.Conditions.Amount = vo.FromReais(600_000)
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "maximum amount: R$ 500.000,00")
	})

	s.Run("term outside limits", func() {
		p := s.baseProposal()
		p.Conditions.TermMonths = 3
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "minimum term: 6 months")

		p.Conditions.TermMonths = 96
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "maximum term: 84 months")
	})

	s.Run("term not in commercial table warns", func() {
		p := s.baseProposal()
		p.Conditions.TermMonths = 18
		table := s.baseTable()
		table.AllowedTermMonths = []int{12, 24, 36}
		result := s.validator.Validate(p, s.baseProduct(), table)
		s.True(result.Valid())
		s.Contains(result.Warnings, "term of 18 months is not offered by the commercial table (available: 12, 24, 36)")
	})

	s.Run("rate overrides", func() {
		p := s.baseProposal()

		negative := -1.0
		p.Conditions.AnnualRatePct = &negative
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Errors, "interest rate cannot be negative")

		tooLow := 5.0
		p.Conditions.AnnualRatePct = &tooLow
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Warnings, "rate well below the commercial table base rate (24.00%)")

		tooHigh := 70.0
		p.Conditions.AnnualRatePct = &tooHigh
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Warnings, "rate well above the commercial table base rate (24.00%)")
		s.Contains(result.Warnings, "annual rate above 60% - confirm before proceeding")
	})
}

func (s *ValidatorSuite) TestProductRulesStage() {
	s.Run("inactive product", func() {
		product := s.baseProduct()
		product.Active = false
		result := s.validator.Validate(s.baseProposal(), product, s.baseTable())
		s.Contains(result.Errors, "product is not active")
	})

	s.Run("long personal loan warns", func() {
		p := s.baseProposal()
		p.Conditions.TermMonths = 72
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.True(result.Valid())
		s.Contains(result.Warnings, "long term for a personal loan - confirm the need")
	})

	s.Run("revolving credit beyond 12 months is an error", func() {
		p := s.baseProposal()
		p.Conditions.TermMonths = 24
		product := s.baseProduct()
		product.Category = models.CategoryRevolving
		result := s.validator.Validate(p, product, s.baseTable())
		s.Contains(result.Errors, "term exceeds 12 months for revolving credit")
	})

	s.Run("vehicle financing requires vehicle data", func() {
		p := s.baseProposal()
		product := s.baseProduct()
		product.Category = models.CategoryVehicle

		result := s.validator.Validate(p, product, s.baseTable())
		s.Contains(result.Errors, "vehicle data is required for vehicle financing")

		p.Vehicle = &models.Vehicle{ManufactureYear: 2010}
		result = s.validator.Validate(p, product, s.baseTable())
		s.Contains(result.Errors, "vehicle chassis number is required")
		s.Contains(result.Warnings, "vehicle older than 10 years - review depreciation")
	})

	s.Run("secured loan requires guarantee data", func() {
		p := s.baseProposal()
		product := s.baseProduct()
		product.Category = models.CategoryCollateralized

		result := s.validator.Validate(p, product, s.baseTable())
		s.Contains(result.Errors, "guarantee data is required for secured loans")

		p.Guarantee = &models.Guarantee{Type: models.GuaranteeRealEstate}
		result = s.validator.Validate(p, product, s.baseTable())
		s.Contains(result.Errors, "property registration number is required for real estate collateral")
	})
}

func (s *ValidatorSuite) TestCrossFieldStage() {
	s.Run("income commitment thresholds", func() {
		p := s.baseProposal()
		income := vo.FromReais(2_000)
		p.Client.MonthlyIncome = &income
		p.Conditions.Amount = vo.FromReais(20_000)
		p.Conditions.TermMonths = 24 // flat installment ~833, commitment ~0.42
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Warnings, "income commitment above 30% - extra attention during review")

		p.Conditions.TermMonths = 12 // flat installment ~1667, commitment ~0.83
		result = s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.Contains(result.Warnings, "income commitment above 50% - review repayment capacity")
	})

	s.Run("age at contract end", func() {
		p := s.baseProposal()
		p.Client.BirthDate = s.birthDate(73)
		p.Conditions.TermMonths = 36
		result := s.validator.Validate(p, s.baseProduct(), s.baseTable())
		s.True(result.Valid())
		s.Contains(result.Warnings, "applicant will be over 75 at the end of the contract - review future capacity")
	})
}
