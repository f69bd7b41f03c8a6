package selector

import (
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// identitySet is a set of applicant identities
type identitySet map[string]struct{}

func newIdentitySet(groups ...[]model.Applicant) identitySet {
	set := make(identitySet)
	for _, group := range groups {
		for _, a := range group {
			set[a.ID] = struct{}{}
		}
	}
	return set
}

func (s identitySet) contains(a model.Applicant) bool {
	_, ok := s[a.ID]
	return ok
}

// Without returns the tiers minus every applicant in the given finalised selections
func (t Tiers) Without(selections ...[]model.Applicant) Tiers {
	exclude := newIdentitySet(selections...)
	return Tiers{
		A: subtract(t.A, exclude),
		B: subtract(t.B, exclude),
		C: subtract(t.C, exclude),
	}
}

// Difference returns the applicants of from that are not in any of the given groups.
// Order of from is preserved.
func Difference(from []model.Applicant, groups ...[]model.Applicant) []model.Applicant {
	return subtract(from, newIdentitySet(groups...))
}

func subtract(from []model.Applicant, exclude identitySet) []model.Applicant {
	return filter(from, func(a model.Applicant) bool { return !exclude.contains(a) })
}
