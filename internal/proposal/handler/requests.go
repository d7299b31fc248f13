package handler

import (
	"strings"
	"time"

	"crivo/internal/proposal/models"
	"crivo/internal/proposal/status"
	id "crivo/pkg/domain"
	dErrors "crivo/pkg/domain-errors"
	vo "crivo/pkg/valueobject"
)

const dateLayout = "2006-01-02"

// ProposalRequest is the HTTP request body for POST /proposals and
// POST /proposals/validate. Structural parsing happens here; business rule
// validation is the service's job.
type ProposalRequest struct {
	Client            ClientPayload     `json:"client"`
	Conditions        ConditionsPayload `json:"conditions"`
	ProductID         string            `json:"product_id"`
	CommercialTableID string            `json:"commercial_table_id"`
	Vehicle           *VehiclePayload   `json:"vehicle,omitempty"`
	Guarantee         *GuaranteePayload `json:"guarantee,omitempty"`

	parsed models.Proposal
}

// ClientPayload carries the applicant's data as captured at intake.
type ClientPayload struct {
	Name              string           `json:"name"`
	CPF               string           `json:"cpf"`
	Email             string           `json:"email,omitempty"`
	Phone             string           `json:"phone,omitempty"`
	BirthDate         string           `json:"birth_date,omitempty"`
	MonthlyIncomeCents *int64          `json:"monthly_income_cents,omitempty"`
	BureauScore       *int             `json:"bureau_score,omitempty"`
	Address           AddressPayload   `json:"address"`
	PaymentHistory    []PaymentPayload `json:"payment_history,omitempty"`
	Debts             []DebtPayload    `json:"debts,omitempty"`
}

type AddressPayload struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	CEP    string `json:"cep,omitempty"`
}

type ConditionsPayload struct {
	AmountCents   int64    `json:"amount_cents"`
	TermMonths    int      `json:"term_months"`
	AnnualRatePct *float64 `json:"annual_rate_pct,omitempty"`
}

type VehiclePayload struct {
	Chassis         string `json:"chassis"`
	ManufactureYear int    `json:"manufacture_year"`
}

type GuaranteePayload struct {
	Type                   string `json:"type"`
	RealEstateRegistration string `json:"real_estate_registration,omitempty"`
}

type PaymentPayload struct {
	DueDate     string `json:"due_date"`
	PaidAt      string `json:"paid_at,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	DaysLate    int    `json:"days_late,omitempty"`
}

type DebtPayload struct {
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

// Validate parses the structural parts of the request into the domain
// aggregate. Implements httputil.Validator.
func (r *ProposalRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	productID, err := id.ParseProductID(strings.TrimSpace(r.ProductID))
	if err != nil {
		return err
	}
	tableID, err := id.ParseCommercialTableID(strings.TrimSpace(r.CommercialTableID))
	if err != nil {
		return err
	}

	client, err := r.Client.toModel()
	if err != nil {
		return err
	}

	proposal := models.Proposal{
		Client: client,
		Conditions: models.LoanConditions{
			Amount:        vo.FromCents(r.Conditions.AmountCents),
			TermMonths:    r.Conditions.TermMonths,
			AnnualRatePct: r.Conditions.AnnualRatePct,
		},
		ProductID:         productID,
		CommercialTableID: tableID,
	}

	if r.Vehicle != nil {
		proposal.Vehicle = &models.Vehicle{
			Chassis:         strings.TrimSpace(r.Vehicle.Chassis),
			ManufactureYear: r.Vehicle.ManufactureYear,
		}
	}
	if r.Guarantee != nil {
		proposal.Guarantee = &models.Guarantee{
			Type:                   models.GuaranteeType(r.Guarantee.Type),
			RealEstateRegistration: strings.TrimSpace(r.Guarantee.RealEstateRegistration),
		}
	}

	r.parsed = proposal
	return nil
}

// Parsed returns the validated proposal aggregate.
func (r *ProposalRequest) Parsed() models.Proposal {
	return r.parsed
}

func (c ClientPayload) toModel() (models.ClientProfile, error) {
	client := models.ClientProfile{
		Name:        strings.TrimSpace(c.Name),
		CPF:         strings.TrimSpace(c.CPF),
		Email:       strings.TrimSpace(c.Email),
		Phone:       strings.TrimSpace(c.Phone),
		BureauScore: c.BureauScore,
		Address: models.Address{
			Street: strings.TrimSpace(c.Address.Street),
			City:   strings.TrimSpace(c.Address.City),
			State:  strings.TrimSpace(c.Address.State),
			CEP:    strings.TrimSpace(c.Address.CEP),
		},
	}

	if c.BirthDate != "" {
		birth, err := time.Parse(dateLayout, c.BirthDate)
		if err != nil {
			return models.ClientProfile{}, dErrors.Newf(dErrors.CodeInvalidInput, "birth_date must use the %s format", dateLayout)
		}
		client.BirthDate = &birth
	}

	if c.MonthlyIncomeCents != nil {
		income := vo.FromCents(*c.MonthlyIncomeCents)
		client.MonthlyIncome = &income
	}

	for _, p := range c.PaymentHistory {
		record, err := p.toModel()
		if err != nil {
			return models.ClientProfile{}, err
		}
		client.PaymentHistory = append(client.PaymentHistory, record)
	}

	for _, d := range c.Debts {
		client.Debts = append(client.Debts, models.Debt{
			Amount: vo.FromCents(d.AmountCents),
			Type:   models.DebtType(d.Type),
			Status: models.DebtStatus(d.Status),
		})
	}

	return client, nil
}

func (p PaymentPayload) toModel() (models.PaymentRecord, error) {
	due, err := time.Parse(dateLayout, p.DueDate)
	if err != nil {
		return models.PaymentRecord{}, dErrors.Newf(dErrors.CodeInvalidInput, "payment_history.due_date must use the %s format", dateLayout)
	}

	record := models.PaymentRecord{
		DueDate:  due,
		Amount:   vo.FromCents(p.AmountCents),
		Status:   models.PaymentStatus(p.Status),
		DaysLate: p.DaysLate,
	}

	if p.PaidAt != "" {
		paid, err := time.Parse(dateLayout, p.PaidAt)
		if err != nil {
			return models.PaymentRecord{}, dErrors.Newf(dErrors.CodeInvalidInput, "payment_history.paid_at must use the %s format", dateLayout)
		}
		record.PaidAt = &paid
	}

	return record, nil
}

// ChangeStatusRequest is the HTTP request body for POST /proposals/{id}/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`

	parsedStatus status.Status
}

// Validate parses the requested status. Implements httputil.Validator.
func (r *ChangeStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	st, err := status.Parse(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.parsedStatus = st
	return nil
}

// ParsedStatus returns the validated target status.
func (r *ChangeStatusRequest) ParsedStatus() status.Status {
	return r.parsedStatus
}
