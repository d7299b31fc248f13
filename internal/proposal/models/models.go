// Package models holds the proposal aggregate and its collaborating records.
// The decision engines consume these as immutable snapshots supplied by the
// caller; nothing here is persisted by the engines themselves.
package models

import (
	"time"

	id "crivo/pkg/domain"
	vo "crivo/pkg/valueobject"

	dErrors "crivo/pkg/domain-errors"
)

// Category is the closed set of loan product categories. Rule dispatch keys
// on this tag, never on product name matching.
type Category string

const (
	CategoryPersonal       Category = "personal_loan"
	CategoryRevolving      Category = "revolving_credit"
	CategoryVehicle        Category = "vehicle_financing"
	CategoryCollateralized Category = "secured_loan"
	CategoryOther          Category = "other"
)

var validCategories = map[Category]struct{}{
	CategoryPersonal:       {},
	CategoryRevolving:      {},
	CategoryVehicle:        {},
	CategoryCollateralized: {},
	CategoryOther:          {},
}

// ParseCategory validates a raw category tag.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := validCategories[c]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown product category %q", s)
	}
	return c, nil
}

// IsValid reports whether the category belongs to the closed set.
func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// Product identifies a loan product. The category tag is attached at product
// creation time and drives product-specific rules.
type Product struct {
	ID       id.ProductID
	Name     string
	Category Category
	Active   bool
}

// CommercialTable is the partner/product pricing configuration.
type CommercialTable struct {
	ID                id.CommercialTableID
	PartnerID         id.PartnerID
	AnnualRatePct     float64
	MonthlyRatePct    float64
	CommissionPct     float64
	AllowedTermMonths []int
}

// AllowsTerm reports whether the requested term is in the allowed set. An
// empty set means the table does not restrict terms.
func (t CommercialTable) AllowsTerm(months int) bool {
	if len(t.AllowedTermMonths) == 0 {
		return true
	}
	for _, m := range t.AllowedTermMonths {
		if m == months {
			return true
		}
	}
	return false
}

// Address is the client's postal address. CEP is kept raw; completeness is
// judged by the validator.
type Address struct {
	Street string
	City   string
	State  string
	CEP    string
}

// ClientProfile carries the applicant's data as captured, with contact fields
// raw so the validator can distinguish absent from malformed input.
type ClientProfile struct {
	Name          string
	CPF           string
	Email         string
	Phone         string
	BirthDate     *time.Time
	MonthlyIncome *vo.Money
	Address       Address

	// Optional bureau and behavioral inputs, supplied by upstream collectors.
	BureauScore    *int
	PaymentHistory []PaymentRecord
	Debts          []Debt
}

// LoanConditions is the requested financing shape.
type LoanConditions struct {
	Amount     vo.Money
	TermMonths int

	// AnnualRatePct overrides the table rate when set.
	AnnualRatePct *float64
}

// Vehicle describes the financed vehicle for vehicle-category products.
type Vehicle struct {
	Chassis         string
	ManufactureYear int
}

// GuaranteeType is the closed set of collateral types.
type GuaranteeType string

const (
	GuaranteeRealEstate GuaranteeType = "real_estate"
	GuaranteeVehicle    GuaranteeType = "vehicle"
	GuaranteeOther      GuaranteeType = "other"
)

// Guarantee describes the pledged collateral for secured products.
type Guarantee struct {
	Type GuaranteeType

	// RealEstateRegistration is the property registry number, required when
	// Type is GuaranteeRealEstate.
	RealEstateRegistration string
}

// Proposal aggregates everything the engines evaluate for one application.
type Proposal struct {
	ID                id.ProposalID
	Client            ClientProfile
	Conditions        LoanConditions
	ProductID         id.ProductID
	CommercialTableID id.CommercialTableID
	Vehicle           *Vehicle
	Guarantee         *Guarantee
	CreatedAt         time.Time
}

// PaymentStatus classifies one payment history entry.
type PaymentStatus string

const (
	PaymentOnTime    PaymentStatus = "ON_TIME"
	PaymentLate      PaymentStatus = "LATE"
	PaymentDefaulted PaymentStatus = "DEFAULTED"
)

// PaymentRecord is one entry of the client's payment history, most recent
// entries last.
type PaymentRecord struct {
	DueDate time.Time
	PaidAt  *time.Time
	Amount  vo.Money
	Status  PaymentStatus

	// DaysLate is only meaningful when Status is PaymentLate.
	DaysLate int
}

// DebtStatus classifies a declared debt. Only active debts count toward
// burden calculations.
type DebtStatus string

const (
	DebtActive     DebtStatus = "ACTIVE"
	DebtSettled    DebtStatus = "SETTLED"
	DebtRefinanced DebtStatus = "REFINANCED"
)

// DebtType is the declared nature of an existing obligation.
type DebtType string

const (
	DebtCreditCard DebtType = "credit_card"
	DebtFinancing  DebtType = "financing"
	DebtLoan       DebtType = "loan"
	DebtOtherType  DebtType = "other"
)

// Debt is one declared existing obligation.
type Debt struct {
	Amount vo.Money
	Type   DebtType
	Status DebtStatus
}
