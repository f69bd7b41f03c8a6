package e2e

import (
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector"
	"github.com/jakechorley/accreditation-draw/pkg/core/selector/constraints"
)

// Type aliases to avoid prefixing everything with selector.
type (
	Applicant = model.Applicant
	Config    = selector.Config
	Pools     = selector.Pools
	Outcome   = selector.Outcome
)

const (
	Window1  = model.PreferenceWindow1
	Window2  = model.PreferenceWindow2
	Flexible = model.PreferenceFlexible
	Male     = model.GenderMale
	NonMale  = model.GenderNonMale
)

// Function aliases
var (
	BalanceWindows     = selector.BalanceWindows
	Classify           = selector.Classify
	Select             = selector.Select
	NewRand            = selector.NewRand
	DefaultConstraints = constraints.Default
)
