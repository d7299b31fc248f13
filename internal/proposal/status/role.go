package status

import (
	dErrors "crivo/pkg/domain-errors"
)

// Role is the closed set of actors allowed to move proposals through the
// lifecycle. Permissions are a fixed enumerated mapping, never derived from
// free-form role strings, so a typo can never widen access.
type Role string

const (
	// RoleOperator handles intake and document collection.
	RoleOperator Role = "OPERATOR"

	// RoleManager reviews and decides applications.
	RoleManager Role = "MANAGER"

	// RoleDirector decides applications and signs off formalization.
	RoleDirector Role = "DIRECTOR"

	// RoleSystem is the automated servicing identity (disbursement,
	// collection, settlement).
	RoleSystem Role = "SYSTEM"
)

// rolePermissions lists, per role, the statuses the role may set as the
// transition target.
var rolePermissions = map[Role][]Status{
	RoleOperator: {StatusInReview, StatusPendingDocuments, StatusCanceled},
	RoleManager:  {StatusApproved, StatusDenied},
	RoleDirector: {StatusApproved, StatusDenied, StatusFormalized, StatusCanceled},
	RoleSystem: {
		StatusInReview, StatusPendingDocuments, StatusApproved, StatusDenied,
		StatusFormalized, StatusActive, StatusDefaulted, StatusSettled, StatusCanceled,
	},
}

// ParseRole validates a raw role value.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := rolePermissions[r]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", s)
	}
	return r, nil
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// MaySet reports whether the role is allowed to set the requested status.
func (r Role) MaySet(requested Status) bool {
	for _, allowed := range rolePermissions[r] {
		if allowed == requested {
			return true
		}
	}
	return false
}
