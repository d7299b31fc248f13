// Package rules validates a loan proposal against business and regulatory
// constraints. Stages append to one shared result instead of short-circuiting
// so the caller sees every problem at once; errors block approval, warnings
// do not.
package rules

import (
	"math"
	"strconv"
	"strings"
	"time"

	"crivo/internal/proposal/models"
	vo "crivo/pkg/valueobject"
)

// Validator applies the business rule stages to a proposal snapshot.
type Validator struct {
	limits Limits
	now    func() time.Time
}

// Option customizes a Validator.
type Option func(*Validator)

// WithClock fixes the reference time used for age calculations.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New constructs a Validator with the given limits.
func New(limits Limits, opts ...Option) *Validator {
	v := &Validator{
		limits: limits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs all rule stages in order. The result is valid when no stage
// produced a blocking error.
func (v *Validator) Validate(p models.Proposal, product models.Product, table models.CommercialTable) *models.ValidationResult {
	result := &models.ValidationResult{}

	v.validateClientData(p.Client, result)
	v.validateFinancialConditions(p.Conditions, table, result)
	v.validateProductRules(p, product, result)
	v.validateCrossFieldRules(p, result)

	return result
}

func (v *Validator) validateClientData(client models.ClientProfile, result *models.ValidationResult) {
	if len(strings.TrimSpace(client.Name)) < 2 {
		result.AddError("full name is required (minimum 2 characters)")
	}

	if strings.TrimSpace(client.CPF) == "" {
		result.AddError("CPF is required")
	} else if !vo.CPFIsValid(client.CPF) {
		result.AddError("invalid CPF")
	}

	if strings.TrimSpace(client.Email) == "" {
		result.AddWarning("email not provided - communication will be limited")
	} else if _, err := vo.ParseEmail(client.Email); err != nil {
		result.AddError("invalid email address")
	}

	if strings.TrimSpace(client.Phone) == "" {
		result.AddWarning("phone not provided - contact will be limited")
	} else if _, err := vo.ParsePhone(client.Phone); err != nil {
		result.AddError("invalid phone number")
	}

	if client.BirthDate != nil {
		age := yearsBetween(*client.BirthDate, v.now())
		if age < 18 {
			result.AddError("applicant must be of legal age (18 years)")
		} else if age > 80 {
			result.AddWarning("applicant over 80 years old - review repayment capacity")
		}
	}

	if client.MonthlyIncome != nil && client.MonthlyIncome.LessThan(v.limits.MinimumWage) {
		result.AddWarning("monthly income below minimum wage - review income source")
	}

	if strings.TrimSpace(client.Address.CEP) == "" {
		result.AddWarning("complete postal address not provided")
	}
}

func (v *Validator) validateFinancialConditions(cond models.LoanConditions, table models.CommercialTable, result *models.ValidationResult) {
	if !cond.Amount.IsPositive() {
		result.AddError("requested amount must be greater than zero")
	} else {
		if cond.Amount.LessThan(v.limits.MinAmount) {
			result.AddErrorf("minimum amount: %s", v.limits.MinAmount)
		}
		if cond.Amount.GreaterThan(v.limits.MaxAmount) {
			result.AddErrorf("maximum amount: %s", v.limits.MaxAmount)
		}
	}

	if cond.TermMonths <= 0 {
		result.AddError("requested term must be greater than zero")
	} else {
		if cond.TermMonths < v.limits.MinTermMonths {
			result.AddErrorf("minimum term: %d months", v.limits.MinTermMonths)
		}
		if cond.TermMonths > v.limits.MaxTermMonths {
			result.AddErrorf("maximum term: %d months", v.limits.MaxTermMonths)
		}
		if !table.AllowsTerm(cond.TermMonths) {
			result.AddWarningf("term of %d months is not offered by the commercial table (available: %s)",
				cond.TermMonths, joinTerms(table.AllowedTermMonths))
		}
	}

	if cond.AnnualRatePct != nil {
		rate := *cond.AnnualRatePct
		base := table.AnnualRatePct

		if rate < 0 {
			result.AddError("interest rate cannot be negative")
		}
		if base > 0 {
			if rate < base*0.5 {
				result.AddWarningf("rate well below the commercial table base rate (%.2f%%)", base)
			}
			if rate > base*2.5 {
				result.AddWarningf("rate well above the commercial table base rate (%.2f%%)", base)
			}
		}
		if rate > v.limits.AnnualRateCeilingPct {
			result.AddWarningf("annual rate above %.0f%% - confirm before proceeding", v.limits.AnnualRateCeilingPct)
		}
	}
}

func (v *Validator) validateProductRules(p models.Proposal, product models.Product, result *models.ValidationResult) {
	if !product.Active {
		result.AddError("product is not active")
	}

	switch product.Category {
	case models.CategoryPersonal:
		if p.Conditions.TermMonths > 60 {
			result.AddWarning("long term for a personal loan - confirm the need")
		}
	case models.CategoryRevolving:
		if p.Conditions.TermMonths > 12 {
			result.AddError("term exceeds 12 months for revolving credit")
		}
	case models.CategoryVehicle:
		v.validateVehicleRules(p.Vehicle, result)
	case models.CategoryCollateralized:
		v.validateGuaranteeRules(p.Guarantee, result)
	}
}

func (v *Validator) validateVehicleRules(vehicle *models.Vehicle, result *models.ValidationResult) {
	if vehicle == nil {
		result.AddError("vehicle data is required for vehicle financing")
		return
	}

	if strings.TrimSpace(vehicle.Chassis) == "" {
		result.AddError("vehicle chassis number is required")
	}

	if vehicle.ManufactureYear > 0 {
		if v.now().Year()-vehicle.ManufactureYear > 10 {
			result.AddWarning("vehicle older than 10 years - review depreciation")
		}
	}
}

func (v *Validator) validateGuaranteeRules(guarantee *models.Guarantee, result *models.ValidationResult) {
	if guarantee == nil {
		result.AddError("guarantee data is required for secured loans")
		return
	}

	if guarantee.Type == "" {
		result.AddError("guarantee type must be specified")
	}

	if guarantee.Type == models.GuaranteeRealEstate && strings.TrimSpace(guarantee.RealEstateRegistration) == "" {
		result.AddError("property registration number is required for real estate collateral")
	}
}

func (v *Validator) validateCrossFieldRules(p models.Proposal, result *models.ValidationResult) {
	client := p.Client
	cond := p.Conditions

	// Income commitment: estimated flat installment over requested term, not
	// full amortization.
	if client.MonthlyIncome != nil && client.MonthlyIncome.IsPositive() &&
		cond.Amount.IsPositive() && cond.TermMonths > 0 {
		installment := cond.Amount.Div(int64(cond.TermMonths))
		commitment := installment.Reais() / client.MonthlyIncome.Reais()

		if commitment > 0.5 {
			result.AddWarning("income commitment above 50% - review repayment capacity")
		} else if commitment > 0.3 {
			result.AddWarning("income commitment above 30% - extra attention during review")
		}
	}

	// Projected age at contract end.
	if client.BirthDate != nil && cond.TermMonths > 0 {
		age := yearsBetween(*client.BirthDate, v.now())
		ageAtEnd := age + int(math.Ceil(float64(cond.TermMonths)/12))
		if ageAtEnd > 75 {
			result.AddWarning("applicant will be over 75 at the end of the contract - review future capacity")
		}
	}
}

// yearsBetween computes completed calendar years from birth to ref.
func yearsBetween(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}

func joinTerms(terms []int) string {
	if len(terms) == 0 {
		return "any"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ", ")
}
