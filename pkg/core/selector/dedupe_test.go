package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

func TestTiers_Without_RemovesFromEveryTier(t *testing.T) {
	applicants := []model.Applicant{
		{ID: "a1", MeritScore: 9},
		{ID: "a2", MeritScore: 9},
		{ID: "b1", MeritScore: 6},
		{ID: "c1", MeritScore: 2},
		{ID: "c2", MeritScore: 2},
	}
	tiers := Classify(applicants)

	selected := []model.Applicant{{ID: "a2"}, {ID: "b1"}, {ID: "c2"}}
	remaining := tiers.Without(selected)

	assert.Equal(t, []string{"a1"}, ids(remaining.A))
	assert.Empty(t, remaining.B)
	assert.Equal(t, []string{"c1"}, ids(remaining.C))

	// Original tiers are untouched
	assert.Equal(t, 5, tiers.Size())
}

func TestTiers_Without_MatchesByIdentityOnly(t *testing.T) {
	tiers := Classify([]model.Applicant{{ID: "a1", MeritScore: 9, Gender: model.GenderMale}})

	// Same identity but different attributes still counts as the same applicant
	remaining := tiers.Without([]model.Applicant{{ID: "a1", MeritScore: 1}})

	assert.Empty(t, remaining.A)
}

func TestTiers_Without_MultipleSelections(t *testing.T) {
	tiers := Classify(buildApplicants("x", applicantGroup{count: 5, score: 9}))

	remaining := tiers.Without(
		[]model.Applicant{{ID: "x00"}},
		[]model.Applicant{{ID: "x03"}, {ID: "x04"}},
	)

	assert.Equal(t, []string{"x01", "x02"}, ids(remaining.A))
}

func TestDifference_PreservesOrder(t *testing.T) {
	from := buildApplicants("x", applicantGroup{count: 5, score: 9})

	out := Difference(from, []model.Applicant{{ID: "x01"}}, []model.Applicant{{ID: "x03"}})

	assert.Equal(t, []string{"x00", "x02", "x04"}, ids(out))
}
