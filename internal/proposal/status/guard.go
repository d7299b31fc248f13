package status

import (
	"crivo/internal/proposal/models"
)

// bureauScoreFloor is the bureau score below which an approval draws a
// re-review warning.
const bureauScoreFloor = 400

// TransitionContext carries optional proposal data consulted by
// transition-specific rules.
type TransitionContext struct {
	// BureauScore, when present, is checked against the approval floor.
	BureauScore *int
}

// ValidateTransition checks a requested status change against the transition
// graph and the actor's role permissions. Both checks run regardless of the
// other's outcome so the caller sees every reason a transition is rejected.
func ValidateTransition(current, requested Status, role Role, ctx *TransitionContext) *models.ValidationResult {
	result := &models.ValidationResult{}

	if !current.IsValid() {
		result.AddErrorf("unknown status %q", string(current))
	}
	if !requested.IsValid() {
		result.AddErrorf("unknown status %q", string(requested))
	}
	if !result.Valid() {
		return result
	}

	if !current.CanTransitionTo(requested) {
		result.AddErrorf("transition from %s to %s is not permitted", current, requested)
	}

	if !role.IsValid() {
		result.AddErrorf("unknown role %q", string(role))
	} else if !role.MaySet(requested) {
		result.AddErrorf("role %s is not allowed to set status %s", role, requested)
	}

	if requested == StatusApproved && ctx != nil && ctx.BureauScore != nil && *ctx.BureauScore < bureauScoreFloor {
		result.AddWarning("bureau score below approval floor - review the analysis")
	}

	return result
}
