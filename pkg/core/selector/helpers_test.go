package selector

import (
	"fmt"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// fixedRand always returns the same values, for tests that need exact outcomes
type fixedRand struct {
	float float64
}

func (f fixedRand) IntN(n int) int {
	return 0
}

func (f fixedRand) Float64() float64 {
	return f.float
}

// categoryCap is a test constraint: at most Limit applicants matching Over, backfilled with !Over
type categoryCap struct {
	name  string
	limit func(quota int) int
	over  func(a model.Applicant) bool
}

func (c *categoryCap) Name() string {
	return c.name
}

func (c *categoryCap) Evaluate(selection []model.Applicant, quota int) ConstraintResult {
	achieved := Count(selection, c.over)
	excess := max(0, achieved-c.limit(quota))
	return ConstraintResult{
		Name:      c.name,
		Target:    c.limit(quota),
		Achieved:  achieved,
		Shortfall: excess,
		Satisfied: excess == 0,
	}
}

func (c *categoryCap) Excess(selection []model.Applicant, quota int) int {
	return max(0, Count(selection, c.over)-c.limit(quota))
}

func (c *categoryCap) IsOverRepresented(a model.Applicant) bool {
	return c.over(a)
}

func (c *categoryCap) IsReplacement(a model.Applicant) bool {
	return !c.over(a)
}

func experienceCap() *categoryCap {
	return &categoryCap{
		name:  "experience",
		limit: func(q int) int { return max(1, 2*q/5) },
		over:  func(a model.Applicant) bool { return a.PriorExperience },
	}
}

func maleCap() *categoryCap {
	return &categoryCap{
		name:  "male",
		limit: func(q int) int { return q / 2 },
		over:  func(a model.Applicant) bool { return a.IsMale() },
	}
}

type applicantGroup struct {
	count       int
	score       float64
	gender      model.Gender
	experienced bool
	pref        model.WindowPreference
}

// buildApplicants creates applicants with sequential IDs using the given prefix
func buildApplicants(prefix string, groups ...applicantGroup) []model.Applicant {
	var out []model.Applicant
	n := 0
	for _, s := range groups {
		pref := s.pref
		if pref == model.PreferenceUnset {
			pref = model.PreferenceWindow1
		}
		for i := 0; i < s.count; i++ {
			out = append(out, model.Applicant{
				ID:               fmt.Sprintf("%s%02d", prefix, n),
				RowIndex:         n,
				WindowPreference: pref,
				PriorExperience:  s.experienced,
				Gender:           s.gender,
				MeritScore:       s.score,
			})
			n++
		}
	}
	return out
}

func ids(applicants []model.Applicant) []string {
	out := make([]string, len(applicants))
	for i, a := range applicants {
		out[i] = a.ID
	}
	return out
}

// unmetConstraint is never satisfied and never asks repair to remove anyone
type unmetConstraint struct{}

func (unmetConstraint) Name() string {
	return "unmet"
}

func (unmetConstraint) Evaluate(selection []model.Applicant, quota int) ConstraintResult {
	return ConstraintResult{Name: "unmet", Target: 1, Shortfall: 1}
}

func (unmetConstraint) Excess(selection []model.Applicant, quota int) int {
	return 0
}

func (unmetConstraint) IsOverRepresented(a model.Applicant) bool {
	return false
}

func (unmetConstraint) IsReplacement(a model.Applicant) bool {
	return false
}
