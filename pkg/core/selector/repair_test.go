package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

func TestRepairAndExtend_FillsToQuota(t *testing.T) {
	pool := buildApplicants("x", applicantGroup{count: 10, score: 9, gender: model.GenderNonMale})

	selection, steps, err := repairAndExtend(NewRand(1), 8, nil, nil, pool, "A")
	require.NoError(t, err)

	assert.Len(t, selection, 8)
	assert.Empty(t, steps)
	assertUnique(t, selection)
}

func TestRepairAndExtend_TrimsExperience(t *testing.T) {
	// Quota 8 allows 3 experienced applicants
	candidate := buildApplicants("e",
		applicantGroup{count: 5, score: 9, gender: model.GenderNonMale, experienced: true},
		applicantGroup{count: 3, score: 9, gender: model.GenderNonMale},
	)
	extra := buildApplicants("n", applicantGroup{count: 4, score: 9, gender: model.GenderNonMale})
	pool := append(append([]model.Applicant{}, candidate...), extra...)

	c := experienceCap()
	selection, steps, err := repairAndExtend(NewRand(3), 8, []Constraint{c}, candidate, pool, "A")
	require.NoError(t, err)

	assert.Len(t, selection, 8)
	assert.Equal(t, 3, Count(selection, c.IsOverRepresented))
	assertUnique(t, selection)

	require.Len(t, steps, 1)
	assert.Equal(t, RepairStep{Pool: "A", Constraint: "experience", Excess: 2, Removed: 2, Backfilled: 2}, steps[0])
}

func TestRepairAndExtend_NeverAddsOverRepresented(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		candidate := buildApplicants("e",
			applicantGroup{count: 6, score: 9, gender: model.GenderMale, experienced: true},
			applicantGroup{count: 2, score: 9, gender: model.GenderNonMale},
		)
		extra := buildApplicants("n",
			applicantGroup{count: 3, score: 9, gender: model.GenderMale, experienced: true},
			applicantGroup{count: 3, score: 9, gender: model.GenderNonMale},
		)
		pool := append(append([]model.Applicant{}, candidate...), extra...)

		c := experienceCap()
		before := Count(candidate, c.IsOverRepresented)

		selection, _, err := repairAndExtend(NewRand(seed), 8, []Constraint{c}, candidate, pool, "A")
		require.NoError(t, err)

		assert.LessOrEqual(t, Count(selection, c.IsOverRepresented), before, "seed %d", seed)
		assert.LessOrEqual(t, len(selection), 8, "seed %d", seed)
		assertUnique(t, selection)
	}
}

func TestRepairAndExtend_ReportsUnfilledSlots(t *testing.T) {
	candidate := buildApplicants("e",
		applicantGroup{count: 5, score: 9, gender: model.GenderNonMale, experienced: true},
		applicantGroup{count: 3, score: 9, gender: model.GenderNonMale},
	)
	extra := buildApplicants("n", applicantGroup{count: 1, score: 9, gender: model.GenderNonMale})
	pool := append(append([]model.Applicant{}, candidate...), extra...)

	selection, steps, err := repairAndExtend(NewRand(5), 8, []Constraint{experienceCap()}, candidate, pool, "AB")
	require.NoError(t, err)

	assert.Len(t, selection, 7)
	require.Len(t, steps, 1)
	assert.Equal(t, "AB", steps[0].Pool)
	assert.Equal(t, 2, steps[0].Removed)
	assert.Equal(t, 1, steps[0].Backfilled)
	assert.Equal(t, 1, steps[0].Unfilled)
}

func TestRepairAndExtend_DoesNotReadmitRemoved(t *testing.T) {
	// e1 is removed for experience and would be a valid non-male backfill for the male cap
	candidate := []model.Applicant{
		{ID: "e1", PriorExperience: true, Gender: model.GenderNonMale},
		{ID: "e2", PriorExperience: true, Gender: model.GenderMale},
		{ID: "n1", Gender: model.GenderMale},
		{ID: "n2", Gender: model.GenderMale},
	}
	pool := append(append([]model.Applicant{}, candidate...), model.Applicant{ID: "r1", Gender: model.GenderMale})

	// fixedRand always takes the first eligible entries
	selection, steps, err := repairAndExtend(fixedRand{}, 4, []Constraint{experienceCap(), maleCap()}, candidate, pool, "A")
	require.NoError(t, err)

	assert.Equal(t, []string{"n2", "r1"}, ids(selection))
	require.Len(t, steps, 2)
	assert.Equal(t, RepairStep{Pool: "A", Constraint: "experience", Excess: 1, Removed: 1, Backfilled: 1}, steps[0])
	assert.Equal(t, RepairStep{Pool: "A", Constraint: "male", Excess: 2, Removed: 2, Unfilled: 2}, steps[1])
}

func TestRepairAndExtend_DoesNotModifyCandidate(t *testing.T) {
	candidate := buildApplicants("e",
		applicantGroup{count: 4, score: 9, gender: model.GenderMale, experienced: true},
	)
	pool := append(append([]model.Applicant{}, candidate...),
		buildApplicants("n", applicantGroup{count: 4, score: 9, gender: model.GenderNonMale})...)
	original := ids(candidate)

	_, _, err := repairAndExtend(NewRand(2), 4, []Constraint{experienceCap()}, candidate, pool, "A")
	require.NoError(t, err)

	assert.Equal(t, original, ids(candidate))
}

func assertUnique(t *testing.T, applicants []model.Applicant) {
	t.Helper()
	seen := make(map[string]bool, len(applicants))
	for _, a := range applicants {
		assert.False(t, seen[a.ID], "duplicate applicant %s", a.ID)
		seen[a.ID] = true
	}
}
