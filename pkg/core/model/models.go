package model

import "strconv"

// WindowPreference is the accreditation window an applicant asked for
type WindowPreference int

const (
	PreferenceUnset WindowPreference = iota
	PreferenceWindow1
	PreferenceWindow2
	PreferenceFlexible
)

func (p WindowPreference) String() string {
	switch p {
	case PreferenceWindow1:
		return "Window1"
	case PreferenceWindow2:
		return "Window2"
	case PreferenceFlexible:
		return "Flexible"
	default:
		return "Unset"
	}
}

// IsResolved returns true if the preference names a concrete window
func (p WindowPreference) IsResolved() bool {
	return p == PreferenceWindow1 || p == PreferenceWindow2
}

// WindowNumber returns 1 or 2 for a resolved preference, 0 otherwise
func (p WindowPreference) WindowNumber() int {
	switch p {
	case PreferenceWindow1:
		return 1
	case PreferenceWindow2:
		return 2
	default:
		return 0
	}
}

// PreferenceForWindow maps a 1-based window number to its preference value
func PreferenceForWindow(window int) WindowPreference {
	switch window {
	case 1:
		return PreferenceWindow1
	case 2:
		return PreferenceWindow2
	default:
		return PreferenceUnset
	}
}

type Gender string

const (
	GenderMale    Gender = "Male"
	GenderNonMale Gender = "NonMale"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderNonMale
}

// Applicant represents one candidate from the roster
type Applicant struct {
	ID               string
	RowIndex         int // Zero-based position in the roster
	WindowPreference WindowPreference
	PriorExperience  bool
	Gender           Gender
	MeritScore       float64
	Record           []string // Original row cells in roster column order
}

// IsMale returns true if the applicant is classified as male
func (a Applicant) IsMale() bool {
	return a.Gender == GenderMale
}

// WithPreference returns a copy of the applicant with the given window preference
func (a Applicant) WithPreference(p WindowPreference) Applicant {
	a.WindowPreference = p
	return a
}

// Roster is the full applicant list together with the layout it was read from
type Roster struct {
	Header           []string
	PreferenceColumn int
	ScoreColumn      int
	Applicants       []Applicant
}

// OutputHeader returns the roster header without the merit score column
func (r *Roster) OutputHeader() []string {
	return dropColumn(r.Header, r.ScoreColumn)
}

// OutputRecord returns the applicant's original cells without the merit score column.
// A resolved preference replaces the preference cell, so flexible applicants show their window.
func (r *Roster) OutputRecord(a Applicant) []string {
	record := make([]string, len(r.Header))
	copy(record, a.Record)
	if a.WindowPreference.IsResolved() && r.PreferenceColumn < len(record) {
		record[r.PreferenceColumn] = strconv.Itoa(a.WindowPreference.WindowNumber())
	}
	return dropColumn(record, r.ScoreColumn)
}

func dropColumn(row []string, column int) []string {
	out := make([]string, 0, len(row))
	for i, cell := range row {
		if i == column {
			continue
		}
		out = append(out, cell)
	}
	return out
}
