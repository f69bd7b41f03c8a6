package selector

import (
	"fmt"
	"math"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// BalanceResult reports how flexible applicants were distributed between the two windows
type BalanceResult struct {
	// Applicants is a new collection, in roster order, with every preference resolved
	Applicants []model.Applicant

	RosterSize         int
	TargetWindow1Count int
	FixedWindow1Count  int
	FixedWindow2Count  int
	FlexibleCount      int
	MovedToWindow1     int
	MovedToWindow2     int

	// Window1Overfull is set when fixed Window1 applicants already exceed the target
	Window1Overfull bool
}

// RoundHalfRandomly returns n/2, rounding an odd n up or down with equal probability
func RoundHalfRandomly(r Rand, n int) int {
	return int(math.Floor(float64(n)/2 + r.Float64()))
}

// BalanceWindows resolves every Flexible applicant to Window1 or Window2 so that
// Window1 ends up as close as possible to half of the roster.
//
// Returns an error wrapping ErrConfigurationInfeasible if Window1 needs more flexible
// applicants than exist, or if an applicant has no usable preference.
func BalanceWindows(r Rand, applicants []model.Applicant) (*BalanceResult, error) {
	result := &BalanceResult{
		RosterSize: len(applicants),
	}

	var flexibleIdx []int
	for i, a := range applicants {
		switch a.WindowPreference {
		case model.PreferenceWindow1:
			result.FixedWindow1Count++
		case model.PreferenceWindow2:
			result.FixedWindow2Count++
		case model.PreferenceFlexible:
			flexibleIdx = append(flexibleIdx, i)
		default:
			return nil, fmt.Errorf("applicant %q has no window preference", a.ID)
		}
	}
	result.FlexibleCount = len(flexibleIdx)

	result.TargetWindow1Count = RoundHalfRandomly(r, len(applicants))
	deficit := result.TargetWindow1Count - result.FixedWindow1Count

	if deficit > len(flexibleIdx) {
		return nil, fmt.Errorf("%w: window 1 needs %d flexible applicants but only %d are flexible",
			ErrConfigurationInfeasible, deficit, len(flexibleIdx))
	}
	if deficit < 0 {
		result.Window1Overfull = true
		deficit = 0
	}

	// Pick positions in the flexible group, not applicants, so duplicates by value cannot collide
	positions := make([]int, len(flexibleIdx))
	for i := range positions {
		positions[i] = i
	}
	for i := 0; i < deficit; i++ {
		j := i + r.IntN(len(positions)-i)
		positions[i], positions[j] = positions[j], positions[i]
	}
	toWindow1 := make(map[int]bool, deficit)
	for _, p := range positions[:deficit] {
		toWindow1[flexibleIdx[p]] = true
	}

	resolved := make([]model.Applicant, len(applicants))
	for i, a := range applicants {
		if a.WindowPreference != model.PreferenceFlexible {
			resolved[i] = a
			continue
		}
		if toWindow1[i] {
			resolved[i] = a.WithPreference(model.PreferenceWindow1)
			result.MovedToWindow1++
		} else {
			resolved[i] = a.WithPreference(model.PreferenceWindow2)
			result.MovedToWindow2++
		}
	}
	result.Applicants = resolved

	return result, nil
}
