package selector

import (
	"fmt"
	"math/rand/v2"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// Rand is the random source used for every draw. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand creates a seeded PCG source so a draw can be reproduced from its seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// sample draws k applicants uniformly without replacement. The pool is not modified.
// Callers size k with min(requested, available); a larger k is an infeasible draw.
func sample(r Rand, pool []model.Applicant, k int) ([]model.Applicant, error) {
	if k < 0 || k > len(pool) {
		return nil, fmt.Errorf("%w: cannot draw %d from a pool of %d", ErrConfigurationInfeasible, k, len(pool))
	}

	shuffled := make([]model.Applicant, len(pool))
	copy(shuffled, pool)

	// Partial Fisher-Yates: the first k positions end up as a uniform sample
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:k], nil
}
