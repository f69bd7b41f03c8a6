package e2e

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
)

type group struct {
	count       int
	score       float64
	gender      model.Gender
	experienced bool
	pref        model.WindowPreference
}

// roster builds applicants from groups with IDs unique across the whole roster
func roster(groups ...group) []Applicant {
	var out []Applicant
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			n := len(out)
			out = append(out, Applicant{
				ID:               fmt.Sprintf("applicant-%03d", n),
				RowIndex:         n,
				WindowPreference: g.pref,
				PriorExperience:  g.experienced,
				Gender:           g.gender,
				MeritScore:       g.score,
			})
		}
	}
	return out
}

func TestSelect_StatisticallySatisfiesConstraints(t *testing.T) {
	// Tier A alone can satisfy both constraints, though not every draw does
	applicants := roster(
		group{count: 10, score: 9, gender: NonMale, pref: Window1},
		group{count: 4, score: 9, gender: Male, experienced: true, pref: Window1},
		group{count: 6, score: 8.5, gender: Male, pref: Window1},
		group{count: 2, score: 9, gender: NonMale, experienced: true, pref: Window1},
		group{count: 10, score: 6, gender: Male, pref: Window1},
		group{count: 10, score: 3, gender: NonMale, pref: Window1},
	)
	pools := Classify(applicants).ForWindow(Window1).Pools()

	const runs = 1000
	satisfied := 0
	for seed := uint64(0); seed < runs; seed++ {
		outcome, err := Select(Config{
			Window:      "week1",
			Quota:       8,
			RetryBudget: selector.DefaultRetryBudget,
			Constraints: DefaultConstraints(),
			Rand:        NewRand(seed),
		}, pools)
		require.NoError(t, err)
		require.Len(t, outcome.Selection, 8)

		if outcome.Report.Satisfied {
			satisfied++
			assert.Equal(t, "A", outcome.Report.FinalPool, "seed %d", seed)
		}
	}

	assert.GreaterOrEqual(t, satisfied, runs*99/100)
}

func TestSelect_TwentyApplicantRoster(t *testing.T) {
	applicants := roster(
		group{count: 6, score: 8.5, gender: NonMale, pref: Window1},
		group{count: 2, score: 9, gender: Male, pref: Window1},
		group{count: 2, score: 10, gender: Male, experienced: true, pref: Window1},
		group{count: 6, score: 5, gender: Male, pref: Window1},
		group{count: 4, score: 2, gender: NonMale, experienced: true, pref: Window1},
	)
	require.Len(t, applicants, 20)
	pools := Classify(applicants).ForWindow(Window1).Pools()
	require.Len(t, pools.A, 10)

	const runs = 1000
	satisfied := 0
	for seed := uint64(0); seed < runs; seed++ {
		outcome, err := Select(Config{
			Window:      "week1",
			Quota:       8,
			RetryBudget: selector.DefaultRetryBudget,
			Constraints: DefaultConstraints(),
			Rand:        NewRand(seed),
		}, pools)
		require.NoError(t, err)

		if outcome.Report.Satisfied && outcome.Report.FinalPool == "A" {
			satisfied++
		}
	}

	assert.GreaterOrEqual(t, satisfied, runs*99/100)
}

func TestSelect_EscalatesAndReportsGenderShortfall(t *testing.T) {
	// Only two non-male applicants exist across every tier, against a floor of four
	applicants := roster(
		group{count: 3, score: 9, gender: Male, pref: Window2},
		group{count: 5, score: 6, gender: Male, pref: Window2},
		group{count: 1, score: 6, gender: NonMale, pref: Window2},
		group{count: 2, score: 2, gender: Male, pref: Window2},
		group{count: 1, score: 2, gender: NonMale, pref: Window2},
	)
	pools := Classify(applicants).ForWindow(Window2).Pools()

	for seed := uint64(0); seed < 20; seed++ {
		outcome, err := Select(Config{
			Window:      "week2",
			Quota:       8,
			RetryBudget: 50,
			Constraints: DefaultConstraints(),
			Rand:        NewRand(seed),
		}, pools)
		require.NoError(t, err)

		require.Len(t, outcome.Selection, 8, "seed %d", seed)
		nonMale := 0
		for _, a := range outcome.Selection {
			if !a.IsMale() {
				nonMale++
			}
		}
		assert.Equal(t, 2, nonMale, "seed %d", seed)

		report := outcome.Report
		assert.False(t, report.Satisfied)
		assert.Equal(t, "ABC", report.FinalPool)
		assert.Equal(t, 2, report.ToppedUp)
		assert.Equal(t, 0, report.QuotaShortfall)

		unmet := report.Unmet()
		require.Len(t, unmet, 1)
		assert.Equal(t, "GenderFloor", unmet[0].Name)
		assert.Equal(t, 4, unmet[0].Target)
		assert.Equal(t, 2, unmet[0].Achieved)
		assert.Equal(t, 2, unmet[0].Shortfall)
	}
}

func TestDraw_WindowsAreDisjointAndBalanced(t *testing.T) {
	applicants := roster(
		group{count: 8, score: 9, gender: NonMale, pref: Window1},
		group{count: 6, score: 9, gender: Male, pref: Window2},
		group{count: 6, score: 9, gender: NonMale, pref: Flexible},
		group{count: 4, score: 8, gender: Male, experienced: true, pref: Flexible},
		group{count: 8, score: 6, gender: NonMale, pref: Flexible},
		group{count: 6, score: 2, gender: Male, pref: Window1},
	)

	for seed := uint64(0); seed < 50; seed++ {
		r := NewRand(seed)

		balanced, err := BalanceWindows(r, applicants)
		require.NoError(t, err)
		assert.Equal(t, len(applicants), len(balanced.Applicants))

		w1, w2 := 0, 0
		for _, a := range balanced.Applicants {
			switch a.WindowPreference {
			case Window1:
				w1++
			case Window2:
				w2++
			}
		}
		assert.Equal(t, len(applicants), w1+w2)
		assert.LessOrEqual(t, w1-w2, 1)
		assert.GreaterOrEqual(t, w1-w2, -1)

		tiers := Classify(balanced.Applicants)

		first, err := Select(Config{
			Window:      "week1",
			Quota:       8,
			RetryBudget: selector.DefaultRetryBudget,
			Constraints: DefaultConstraints(),
			Rand:        r,
		}, tiers.ForWindow(Window1).Pools())
		require.NoError(t, err)

		second, err := Select(Config{
			Window:      "week2",
			Quota:       8,
			RetryBudget: selector.DefaultRetryBudget,
			Constraints: DefaultConstraints(),
			Rand:        r,
		}, tiers.Without(first.Selection).ForWindow(Window2).Pools())
		require.NoError(t, err)

		selectedW1 := map[string]bool{}
		for _, a := range first.Selection {
			assert.Equal(t, Window1, a.WindowPreference)
			selectedW1[a.ID] = true
		}
		for _, a := range second.Selection {
			assert.Equal(t, Window2, a.WindowPreference)
			assert.False(t, selectedW1[a.ID], "seed %d: %s selected twice", seed, a.ID)
		}
	}
}
