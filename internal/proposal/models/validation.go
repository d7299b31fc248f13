package models

import "fmt"

// ValidationResult accumulates the outcome of a rule pass. Errors block the
// operation; warnings are surfaced unchanged but never affect validity.
// Validators build one result by appending, then hand it to the caller, which
// must treat it as read-only.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the result carries no blocking errors.
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// AddError appends a blocking error message.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf appends a formatted blocking error message.
func (r *ValidationResult) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddWarning appends a non-blocking warning message.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddWarningf appends a formatted non-blocking warning message.
func (r *ValidationResult) AddWarningf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends another result's messages, preserving order.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
