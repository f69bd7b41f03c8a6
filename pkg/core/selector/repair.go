package selector

import (
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// RepairStep records what one constraint's repair did to a selection
type RepairStep struct {
	Pool       string
	Constraint string
	Excess     int // Over-represented members the constraint asked to remove
	Removed    int
	Backfilled int
	Unfilled   int // Removed slots that could not be backfilled from the pool
}

// repairAndExtend fills a candidate selection to quota from the pool, then lets each
// constraint in order trim its over-represented category and backfill with its preferred one.
//
// The selection can end up smaller than quota if the pool runs out of preferred
// replacements. Applicants removed during this pass are never re-admitted by it.
// Earlier constraints are not re-checked after later ones have run.
func repairAndExtend(
	r Rand,
	quota int,
	constraints []Constraint,
	candidate []model.Applicant,
	pool []model.Applicant,
	poolName string,
) ([]model.Applicant, []RepairStep, error) {
	selection := make([]model.Applicant, len(candidate))
	copy(selection, candidate)

	// Steps 1-2: extend from the pool minus anything already selected
	rest := Difference(pool, selection)
	fill, err := sample(r, rest, min(max(0, quota-len(selection)), len(rest)))
	if err != nil {
		return nil, nil, err
	}
	selection = append(selection, fill...)

	// Steps 3-5: trim and backfill, one constraint at a time
	var removed []model.Applicant
	steps := make([]RepairStep, 0, len(constraints))
	for _, c := range constraints {
		var step RepairStep
		selection, removed, step, err = repairConstraint(r, quota, c, selection, pool, removed)
		if err != nil {
			return nil, nil, err
		}
		step.Pool = poolName
		steps = append(steps, step)
	}

	return selection, steps, nil
}

// repairConstraint removes the constraint's excess at random and backfills the freed
// slots only with replacement-category applicants from the pool.
func repairConstraint(
	r Rand,
	quota int,
	c Constraint,
	selection []model.Applicant,
	pool []model.Applicant,
	removed []model.Applicant,
) ([]model.Applicant, []model.Applicant, RepairStep, error) {
	step := RepairStep{Constraint: c.Name()}

	step.Excess = c.Excess(selection, quota)
	if step.Excess == 0 {
		return selection, removed, step, nil
	}

	overRepresented := filter(selection, c.IsOverRepresented)
	drop, err := sample(r, overRepresented, min(step.Excess, len(overRepresented)))
	if err != nil {
		return nil, nil, step, err
	}
	selection = Difference(selection, drop)
	removed = append(removed, drop...)

	replacements := filter(Difference(pool, selection, removed), c.IsReplacement)
	add, err := sample(r, replacements, min(len(drop), len(replacements)))
	if err != nil {
		return nil, nil, step, err
	}
	selection = append(selection, add...)

	step.Removed = len(drop)
	step.Backfilled = len(add)
	step.Unfilled = len(drop) - len(add)

	return selection, removed, step, nil
}
