package constraints

import (
	"fmt"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
)

// GenderFloorCriterion gives at least half of a window's accreditations to non-male applicants.
//
// Target:
//   - At least ceil(quota/2) non-male applicants
//   - Shortfall is measured against the quota, so an under-filled selection can miss the
//     floor even with no male applicant in it
//
// Repair:
//   - Removes male applicants above floor(quota/2) at random
//   - Backfills only with non-male applicants
type GenderFloorCriterion struct{}

// NewGenderFloorCriterion creates a new GenderFloorCriterion
func NewGenderFloorCriterion() *GenderFloorCriterion {
	return &GenderFloorCriterion{}
}

// GenderFloor returns the minimum number of non-male applicants for a quota
func GenderFloor(quota int) int {
	return (quota + 1) / 2
}

// MaleCeiling returns the number of male applicants repair keeps for a quota
func MaleCeiling(quota int) int {
	return quota / 2
}

func (c *GenderFloorCriterion) Name() string {
	return "GenderFloor"
}

func (c *GenderFloorCriterion) Evaluate(selection []model.Applicant, quota int) selector.ConstraintResult {
	floor := GenderFloor(quota)
	nonMale := selector.Count(selection, c.IsReplacement)
	shortfall := max(0, floor-nonMale)

	result := selector.ConstraintResult{
		Name:      c.Name(),
		Target:    floor,
		Achieved:  nonMale,
		Shortfall: shortfall,
		Satisfied: shortfall == 0,
	}
	if result.Satisfied {
		result.Description = fmt.Sprintf("%d non-male (floor %d)", nonMale, floor)
	} else {
		result.Description = fmt.Sprintf("%d non-male is %d short of floor %d", nonMale, shortfall, floor)
	}

	return result
}

func (c *GenderFloorCriterion) Excess(selection []model.Applicant, quota int) int {
	return max(0, selector.Count(selection, c.IsOverRepresented)-MaleCeiling(quota))
}

func (c *GenderFloorCriterion) IsOverRepresented(a model.Applicant) bool {
	return a.IsMale()
}

func (c *GenderFloorCriterion) IsReplacement(a model.Applicant) bool {
	return a.Gender == model.GenderNonMale
}
