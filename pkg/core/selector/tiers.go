package selector

import (
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// Tier boundaries on the averaged merit score
const (
	TierAMinScore = 8.0 // score >= 8 is tier A
	TierCMaxScore = 4.0 // score <= 4 is tier C
)

// Tier is a merit bucket derived from an applicant's score
type Tier int

const (
	TierA Tier = iota
	TierB
	TierC
)

func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	default:
		return "C"
	}
}

// ClassifyScore maps a merit score to its tier. Both boundaries are exclusive to
// the middle tier: exactly 8 is A, exactly 4 is C.
func ClassifyScore(score float64) Tier {
	switch {
	case score >= TierAMinScore:
		return TierA
	case score <= TierCMaxScore:
		return TierC
	default:
		return TierB
	}
}

// Tiers holds applicants partitioned by merit tier, each in input order
type Tiers struct {
	A []model.Applicant
	B []model.Applicant
	C []model.Applicant
}

// Pools are the nested sampling universes used by the selector stages
type Pools struct {
	A   []model.Applicant
	AB  []model.Applicant
	ABC []model.Applicant
}

// Classify partitions applicants into tiers. It is a pure function: the same
// input always produces the same tiers in the same order.
func Classify(applicants []model.Applicant) Tiers {
	var tiers Tiers
	for _, a := range applicants {
		switch ClassifyScore(a.MeritScore) {
		case TierA:
			tiers.A = append(tiers.A, a)
		case TierB:
			tiers.B = append(tiers.B, a)
		default:
			tiers.C = append(tiers.C, a)
		}
	}
	return tiers
}

// ForWindow returns the tiers restricted to applicants resolved to the given window
func (t Tiers) ForWindow(pref model.WindowPreference) Tiers {
	inWindow := func(a model.Applicant) bool { return a.WindowPreference == pref }
	return Tiers{
		A: filter(t.A, inWindow),
		B: filter(t.B, inWindow),
		C: filter(t.C, inWindow),
	}
}

// Pools builds the nested pools A, A∪B and A∪B∪C. Each pool is a fresh slice.
func (t Tiers) Pools() Pools {
	ab := make([]model.Applicant, 0, len(t.A)+len(t.B))
	ab = append(ab, t.A...)
	ab = append(ab, t.B...)

	abc := make([]model.Applicant, 0, len(ab)+len(t.C))
	abc = append(abc, ab...)
	abc = append(abc, t.C...)

	a := make([]model.Applicant, len(t.A))
	copy(a, t.A)

	return Pools{A: a, AB: ab, ABC: abc}
}

// Size returns the number of applicants across all tiers
func (t Tiers) Size() int {
	return len(t.A) + len(t.B) + len(t.C)
}

// stage returns the pool used at the given escalation stage
func (p Pools) stage(i int) []model.Applicant {
	switch i {
	case 0:
		return p.A
	case 1:
		return p.AB
	default:
		return p.ABC
	}
}

func filter(applicants []model.Applicant, keep func(model.Applicant) bool) []model.Applicant {
	out := make([]model.Applicant, 0, len(applicants))
	for _, a := range applicants {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
