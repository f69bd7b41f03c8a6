package selector

import (
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// Constraint is a soft rule the selector tries to satisfy for a window.
//
// Constraints are applied in slice order during repair-and-extend: each one trims
// its over-represented category and backfills with its preferred category.
type Constraint interface {
	// Name returns a human-readable identifier for this constraint
	Name() string

	// Evaluate checks a selection built for the given quota
	Evaluate(selection []model.Applicant, quota int) ConstraintResult

	// Excess returns how many over-represented members must be removed from the selection
	// for the constraint to hold. Returns 0 when nothing needs trimming.
	Excess(selection []model.Applicant, quota int) int

	// IsOverRepresented returns true for applicants in the category repair removes
	IsOverRepresented(a model.Applicant) bool

	// IsReplacement returns true for applicants repair may backfill with
	IsReplacement(a model.Applicant) bool
}

// ConstraintResult is the outcome of evaluating one constraint against a selection
type ConstraintResult struct {
	Name        string
	Target      int // The floor or ceiling the constraint asks for
	Achieved    int // The count actually present in the selection
	Shortfall   int // How far the selection is from the target (0 if satisfied)
	Satisfied   bool
	Description string
}

// EvaluateConstraints evaluates every constraint against a selection
func EvaluateConstraints(selection []model.Applicant, quota int, constraints []Constraint) []ConstraintResult {
	results := make([]ConstraintResult, 0, len(constraints))
	for _, c := range constraints {
		results = append(results, c.Evaluate(selection, quota))
	}
	return results
}

// isAcceptable returns true if the selection fills the quota and every constraint holds
func isAcceptable(selection []model.Applicant, quota int, constraints []Constraint) bool {
	if len(selection) != quota {
		return false
	}
	for _, c := range constraints {
		if !c.Evaluate(selection, quota).Satisfied {
			return false
		}
	}
	return true
}

// Count returns how many applicants match the predicate
func Count(applicants []model.Applicant, match func(model.Applicant) bool) int {
	n := 0
	for _, a := range applicants {
		if match(a) {
			n++
		}
	}
	return n
}
