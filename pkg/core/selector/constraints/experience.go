package constraints

import (
	"fmt"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
)

// ExperienceCeilingCriterion keeps applicants with prior on-ground experience a minority.
//
// Target:
//   - At most max(1, floor(2*quota/5)) experienced applicants per window
//   - At least one experienced applicant is always allowed
//
// Repair:
//   - Removes experienced applicants at random
//   - Backfills only with applicants without prior experience
type ExperienceCeilingCriterion struct{}

// NewExperienceCeilingCriterion creates a new ExperienceCeilingCriterion
func NewExperienceCeilingCriterion() *ExperienceCeilingCriterion {
	return &ExperienceCeilingCriterion{}
}

// ExperienceCeiling returns the maximum number of experienced applicants for a quota
func ExperienceCeiling(quota int) int {
	return max(1, 2*quota/5)
}

func (c *ExperienceCeilingCriterion) Name() string {
	return "ExperienceCeiling"
}

func (c *ExperienceCeilingCriterion) Evaluate(selection []model.Applicant, quota int) selector.ConstraintResult {
	ceiling := ExperienceCeiling(quota)
	experienced := selector.Count(selection, c.IsOverRepresented)
	excess := max(0, experienced-ceiling)

	result := selector.ConstraintResult{
		Name:      c.Name(),
		Target:    ceiling,
		Achieved:  experienced,
		Shortfall: excess,
		Satisfied: excess == 0,
	}
	if result.Satisfied {
		result.Description = fmt.Sprintf("%d experienced (ceiling %d)", experienced, ceiling)
	} else {
		result.Description = fmt.Sprintf("%d experienced exceeds ceiling of %d by %d", experienced, ceiling, excess)
	}

	return result
}

func (c *ExperienceCeilingCriterion) Excess(selection []model.Applicant, quota int) int {
	return max(0, selector.Count(selection, c.IsOverRepresented)-ExperienceCeiling(quota))
}

func (c *ExperienceCeilingCriterion) IsOverRepresented(a model.Applicant) bool {
	return a.PriorExperience
}

func (c *ExperienceCeilingCriterion) IsReplacement(a model.Applicant) bool {
	return !a.PriorExperience
}
