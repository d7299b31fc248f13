// Package status enforces the proposal lifecycle: a finite state machine over
// proposal statuses with role-gated transitions.
package status

import (
	dErrors "crivo/pkg/domain-errors"
)

// Status is the closed set of proposal lifecycle states.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusInReview         Status = "IN_REVIEW"
	StatusPendingDocuments Status = "PENDING_DOCS"
	StatusApproved         Status = "APPROVED"
	StatusDenied           Status = "DENIED"
	StatusFormalized       Status = "FORMALIZED"
	StatusActive           Status = "ACTIVE"
	StatusDefaulted        Status = "DEFAULTED"
	StatusSettled          Status = "SETTLED"
	StatusCanceled         Status = "CANCELED"
)

// transitions is the fixed allowed-successor set for each state. SETTLED and
// CANCELED are terminal. DENIED may only return to IN_REVIEW, modeling
// reconsideration with new information.
var transitions = map[Status][]Status{
	StatusDraft:            {StatusInReview, StatusCanceled},
	StatusInReview:         {StatusApproved, StatusDenied, StatusPendingDocuments, StatusCanceled},
	StatusPendingDocuments: {StatusInReview, StatusCanceled},
	StatusApproved:         {StatusFormalized, StatusCanceled},
	StatusDenied:           {StatusInReview},
	StatusFormalized:       {StatusActive, StatusCanceled},
	StatusActive:           {StatusSettled, StatusDefaulted},
	StatusDefaulted:        {StatusActive, StatusSettled},
	StatusSettled:          {},
	StatusCanceled:         {},
}

// Parse validates a raw status value.
func Parse(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown status %q", s)
	}
	return st, nil
}

// IsValid reports whether the status belongs to the closed set.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	successors, ok := transitions[s]
	return ok && len(successors) == 0
}

// CanTransitionTo reports whether requested is in the allowed-successor set.
func (s Status) CanTransitionTo(requested Status) bool {
	for _, next := range transitions[s] {
		if next == requested {
			return true
		}
	}
	return false
}

// Successors returns a copy of the allowed-successor set.
func (s Status) Successors() []Status {
	succ := transitions[s]
	out := make([]Status, len(succ))
	copy(out, succ)
	return out
}
