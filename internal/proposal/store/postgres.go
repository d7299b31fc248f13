package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crivo/internal/credit"
	"crivo/internal/proposal/models"
	"crivo/internal/proposal/status"
	id "crivo/pkg/domain"
	"crivo/pkg/platform/sentinel"
	"crivo/pkg/platform/tx"
	vo "crivo/pkg/valueobject"
)

// PostgresStore persists proposal records in PostgreSQL. The aggregate is
// stored as a JSONB document alongside indexed status and timestamp columns;
// status updates are compare-and-set on the status column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed proposal store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// exec joins an enclosing transaction when the caller put one in the context.
func (s *PostgresStore) exec(ctx context.Context) executor {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, record *ProposalRecord) error {
	payload, err := json.Marshal(toProposalDoc(record.Proposal))
	if err != nil {
		return fmt.Errorf("marshal proposal: %w", err)
	}

	query := `
		INSERT INTO proposals (id, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.exec(ctx).ExecContext(ctx, query, record.Proposal.ID.String(), string(record.Status), payload)
	if err != nil {
		return fmt.Errorf("create proposal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create proposal rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, proposalID id.ProposalID) (*ProposalRecord, error) {
	query := `
		SELECT status, payload, analysis, created_at, updated_at
		FROM proposals
		WHERE id = $1
	`
	record, err := scanProposal(s.exec(ctx).QueryRowContext(ctx, query, proposalID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find proposal by id: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, st status.Status) ([]*ProposalRecord, error) {
	query := `
		SELECT status, payload, analysis, created_at, updated_at
		FROM proposals
		WHERE status = $1
		ORDER BY created_at
	`
	rows, err := s.exec(ctx).QueryContext(ctx, query, string(st))
	if err != nil {
		return nil, fmt.Errorf("list proposals by status: %w", err)
	}
	defer rows.Close()

	var out []*ProposalRecord
	for rows.Next() {
		record, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list proposals by status: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, proposalID id.ProposalID, from, to status.Status) error {
	query := `
		UPDATE proposals
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := s.exec(ctx).ExecContext(ctx, query, proposalID.String(), string(from), string(to))
	if err != nil {
		return fmt.Errorf("update proposal status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update proposal status rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing record from a lost compare-and-set.
		var exists bool
		err := s.exec(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM proposals WHERE id = $1)`, proposalID.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update proposal status existence check: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, proposalID id.ProposalID, analysis *credit.Result) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	query := `
		UPDATE proposals
		SET analysis = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.exec(ctx).ExecContext(ctx, query, proposalID.String(), payload)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save analysis rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*ProposalRecord, error) {
	var (
		rawStatus string
		payload   []byte
		analysis  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&rawStatus, &payload, &analysis, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var doc proposalDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal proposal payload: %w", err)
	}
	proposal, err := fromProposalDoc(doc)
	if err != nil {
		return nil, err
	}

	record := &ProposalRecord{
		Proposal:  proposal,
		Status:    status.Status(rawStatus),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if len(analysis) > 0 {
		var result credit.Result
		if err := json.Unmarshal(analysis, &result); err != nil {
			return nil, fmt.Errorf("unmarshal analysis payload: %w", err)
		}
		record.Analysis = &result
	}

	return record, nil
}

// proposalDoc is the JSONB shape of a proposal. IDs are serialized as strings
// and money as integer cents so the document survives schema-free.
type proposalDoc struct {
	ID                string        `json:"id"`
	Client            clientDoc     `json:"client"`
	Conditions        conditionsDoc `json:"conditions"`
	ProductID         string        `json:"product_id,omitempty"`
	CommercialTableID string        `json:"commercial_table_id,omitempty"`
	Vehicle           *vehicleDoc   `json:"vehicle,omitempty"`
	Guarantee         *guaranteeDoc `json:"guarantee,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

type clientDoc struct {
	Name           string       `json:"name"`
	CPF            string       `json:"cpf"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	BirthDate      *time.Time   `json:"birth_date,omitempty"`
	MonthlyIncome  *vo.Money    `json:"monthly_income,omitempty"`
	Address        addressDoc   `json:"address"`
	BureauScore    *int         `json:"bureau_score,omitempty"`
	PaymentHistory []paymentDoc `json:"payment_history,omitempty"`
	Debts          []debtDoc    `json:"debts,omitempty"`
}

type addressDoc struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	CEP    string `json:"cep,omitempty"`
}

type conditionsDoc struct {
	Amount        vo.Money `json:"amount"`
	TermMonths    int      `json:"term_months"`
	AnnualRatePct *float64 `json:"annual_rate_pct,omitempty"`
}

type vehicleDoc struct {
	Chassis         string `json:"chassis"`
	ManufactureYear int    `json:"manufacture_year"`
}

type guaranteeDoc struct {
	Type                   string `json:"type"`
	RealEstateRegistration string `json:"real_estate_registration,omitempty"`
}

type paymentDoc struct {
	DueDate  time.Time  `json:"due_date"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
	Amount   vo.Money   `json:"amount"`
	Status   string     `json:"status"`
	DaysLate int        `json:"days_late,omitempty"`
}

type debtDoc struct {
	Amount vo.Money `json:"amount"`
	Type   string   `json:"type"`
	Status string   `json:"status"`
}

func toProposalDoc(p models.Proposal) proposalDoc {
	doc := proposalDoc{
		ID: p.ID.String(),
		Client: clientDoc{
			Name:          p.Client.Name,
			CPF:           p.Client.CPF,
			Email:         p.Client.Email,
			Phone:         p.Client.Phone,
			BirthDate:     p.Client.BirthDate,
			MonthlyIncome: p.Client.MonthlyIncome,
			Address: addressDoc{
				Street: p.Client.Address.Street,
				City:   p.Client.Address.City,
				State:  p.Client.Address.State,
				CEP:    p.Client.Address.CEP,
			},
			BureauScore: p.Client.BureauScore,
		},
		Conditions: conditionsDoc{
			Amount:        p.Conditions.Amount,
			TermMonths:    p.Conditions.TermMonths,
			AnnualRatePct: p.Conditions.AnnualRatePct,
		},
		CreatedAt: p.CreatedAt,
	}

	if !p.ProductID.IsNil() {
		doc.ProductID = p.ProductID.String()
	}
	if !p.CommercialTableID.IsNil() {
		doc.CommercialTableID = p.CommercialTableID.String()
	}
	if p.Vehicle != nil {
		doc.Vehicle = &vehicleDoc{Chassis: p.Vehicle.Chassis, ManufactureYear: p.Vehicle.ManufactureYear}
	}
	if p.Guarantee != nil {
		doc.Guarantee = &guaranteeDoc{
			Type:                   string(p.Guarantee.Type),
			RealEstateRegistration: p.Guarantee.RealEstateRegistration,
		}
	}
	for _, rec := range p.Client.PaymentHistory {
		doc.Client.PaymentHistory = append(doc.Client.PaymentHistory, paymentDoc{
			DueDate:  rec.DueDate,
			PaidAt:   rec.PaidAt,
			Amount:   rec.Amount,
			Status:   string(rec.Status),
			DaysLate: rec.DaysLate,
		})
	}
	for _, debt := range p.Client.Debts {
		doc.Client.Debts = append(doc.Client.Debts, debtDoc{
			Amount: debt.Amount,
			Type:   string(debt.Type),
			Status: string(debt.Status),
		})
	}

	return doc
}

func fromProposalDoc(doc proposalDoc) (models.Proposal, error) {
	proposalID, err := id.ParseProposalID(doc.ID)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("proposal payload id: %w", err)
	}

	p := models.Proposal{
		ID: proposalID,
		Client: models.ClientProfile{
			Name:          doc.Client.Name,
			CPF:           doc.Client.CPF,
			Email:         doc.Client.Email,
			Phone:         doc.Client.Phone,
			BirthDate:     doc.Client.BirthDate,
			MonthlyIncome: doc.Client.MonthlyIncome,
			Address: models.Address{
				Street: doc.Client.Address.Street,
				City:   doc.Client.Address.City,
				State:  doc.Client.Address.State,
				CEP:    doc.Client.Address.CEP,
			},
			BureauScore: doc.Client.BureauScore,
		},
		Conditions: models.LoanConditions{
			Amount:        doc.Conditions.Amount,
			TermMonths:    doc.Conditions.TermMonths,
			AnnualRatePct: doc.Conditions.AnnualRatePct,
		},
		CreatedAt: doc.CreatedAt,
	}

	if doc.ProductID != "" {
		productID, err := uuid.Parse(doc.ProductID)
		if err != nil {
			return models.Proposal{}, fmt.Errorf("proposal payload product id: %w", err)
		}
		p.ProductID = id.ProductID(productID)
	}
	if doc.CommercialTableID != "" {
		tableID, err := uuid.Parse(doc.CommercialTableID)
		if err != nil {
			return models.Proposal{}, fmt.Errorf("proposal payload commercial table id: %w", err)
		}
		p.CommercialTableID = id.CommercialTableID(tableID)
	}
	if doc.Vehicle != nil {
		p.Vehicle = &models.Vehicle{Chassis: doc.Vehicle.Chassis, ManufactureYear: doc.Vehicle.ManufactureYear}
	}
	if doc.Guarantee != nil {
		p.Guarantee = &models.Guarantee{
			Type:                   models.GuaranteeType(doc.Guarantee.Type),
			RealEstateRegistration: doc.Guarantee.RealEstateRegistration,
		}
	}
	for _, rec := range doc.Client.PaymentHistory {
		p.Client.PaymentHistory = append(p.Client.PaymentHistory, models.PaymentRecord{
			DueDate:  rec.DueDate,
			PaidAt:   rec.PaidAt,
			Amount:   rec.Amount,
			Status:   models.PaymentStatus(rec.Status),
			DaysLate: rec.DaysLate,
		})
	}
	for _, debt := range doc.Client.Debts {
		p.Client.Debts = append(p.Client.Debts, models.Debt{
			Amount: debt.Amount,
			Type:   models.DebtType(debt.Type),
			Status: models.DebtStatus(debt.Status),
		})
	}

	return p, nil
}
