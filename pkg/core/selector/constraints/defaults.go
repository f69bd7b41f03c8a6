package constraints

import "github.com/jakechorley/accreditation-draw/pkg/core/selector"

// Default returns the accreditation constraints in repair order.
// Experience is repaired before gender.
func Default() []selector.Constraint {
	return []selector.Constraint{
		NewExperienceCeilingCriterion(),
		NewGenderFloorCriterion(),
	}
}
