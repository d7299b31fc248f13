// Package domain defines typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so a ProposalID can never be passed
// where a ProductID is expected. Parse functions enforce the invariant that
// IDs are valid, non-empty, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "crivo/pkg/domain-errors"
)

type (
	// ProposalID identifies a loan proposal under evaluation.
	ProposalID uuid.UUID

	// ProductID identifies a loan product.
	ProductID uuid.UUID

	// CommercialTableID identifies a partner/product pricing table.
	CommercialTableID uuid.UUID

	// PartnerID identifies an originating commercial partner.
	PartnerID uuid.UUID
)

// NewProposalID generates a fresh proposal ID.
func NewProposalID() ProposalID { return ProposalID(uuid.New()) }

// ParseProposalID parses and validates a proposal ID.
func ParseProposalID(s string) (ProposalID, error) {
	u, err := parseUUID(s, "proposal_id")
	return ProposalID(u), err
}

// ParseProductID parses and validates a product ID.
func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID(s, "product_id")
	return ProductID(u), err
}

// ParseCommercialTableID parses and validates a commercial table ID.
func ParseCommercialTableID(s string) (CommercialTableID, error) {
	u, err := parseUUID(s, "commercial_table_id")
	return CommercialTableID(u), err
}

// ParsePartnerID parses and validates a partner ID.
func ParsePartnerID(s string) (PartnerID, error) {
	u, err := parseUUID(s, "partner_id")
	return PartnerID(u), err
}

func (id ProposalID) String() string        { return uuid.UUID(id).String() }
func (id ProductID) String() string         { return uuid.UUID(id).String() }
func (id CommercialTableID) String() string { return uuid.UUID(id).String() }
func (id PartnerID) String() string         { return uuid.UUID(id).String() }

func (id ProposalID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id CommercialTableID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PartnerID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", field)
	}
	return u, nil
}
