package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
)

// Layout names the roster columns and the codes used in them
type Layout struct {
	IdentityColumn   string
	PreferenceColumn string
	ExperienceColumn string
	GenderColumn     string
	ScoreColumn      string

	// FlexibleCode marks an applicant who can attend either window.
	// The word "flexible" is always accepted as well.
	FlexibleCode string
}

// DefaultLayout returns the column names of the accreditation sheet
func DefaultLayout() Layout {
	return Layout{
		IdentityColumn:   "Name",
		PreferenceColumn: "Wochenpraeferenz",
		ExperienceColumn: "AH",
		GenderColumn:     "Gender",
		ScoreColumn:      "Ranking",
		FlexibleCode:     "3",
	}
}

// WithDefaults returns the layout with every empty field taken from DefaultLayout
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if l.IdentityColumn == "" {
		l.IdentityColumn = d.IdentityColumn
	}
	if l.PreferenceColumn == "" {
		l.PreferenceColumn = d.PreferenceColumn
	}
	if l.ExperienceColumn == "" {
		l.ExperienceColumn = d.ExperienceColumn
	}
	if l.GenderColumn == "" {
		l.GenderColumn = d.GenderColumn
	}
	if l.ScoreColumn == "" {
		l.ScoreColumn = d.ScoreColumn
	}
	if l.FlexibleCode == "" {
		l.FlexibleCode = d.FlexibleCode
	}
	return l
}

const (
	MinMeritScore = 1
	MaxMeritScore = 10
)

// Parse converts raw rows, header first, into a roster.
// Rows with an empty identity cell are skipped. Any other malformed cell is an error.
func Parse(rows [][]string, layout Layout) (*model.Roster, error) {
	if len(rows) < 1 {
		return nil, fmt.Errorf("no header row found")
	}
	layout = layout.WithDefaults()

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	for _, field := range []string{
		layout.IdentityColumn,
		layout.PreferenceColumn,
		layout.ExperienceColumn,
		layout.GenderColumn,
		layout.ScoreColumn,
	} {
		index := -1
		for i, cell := range header {
			if cell == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required column in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []string) string {
		index := fieldIndexes[field]
		if index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	roster := &model.Roster{
		Header:           header,
		PreferenceColumn: fieldIndexes[layout.PreferenceColumn],
		ScoreColumn:      fieldIndexes[layout.ScoreColumn],
		Applicants:       make([]model.Applicant, 0, len(rows)-1),
	}
	seen := make(map[string]int)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		sheetRow := i + 1

		id := getField(layout.IdentityColumn, row)
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			return nil, fmt.Errorf("row %d: duplicate %s %q (first seen in row %d)", sheetRow, layout.IdentityColumn, id, first)
		}
		seen[id] = sheetRow

		pref, err := ParsePreference(getField(layout.PreferenceColumn, row), layout.FlexibleCode)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", sheetRow, layout.PreferenceColumn, err)
		}
		experienced, err := ParseExperience(getField(layout.ExperienceColumn, row))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", sheetRow, layout.ExperienceColumn, err)
		}
		gender, err := ParseGender(getField(layout.GenderColumn, row))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", sheetRow, layout.GenderColumn, err)
		}
		score, err := ParseScore(getField(layout.ScoreColumn, row))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", sheetRow, layout.ScoreColumn, err)
		}

		record := make([]string, len(header))
		copy(record, row)

		roster.Applicants = append(roster.Applicants, model.Applicant{
			ID:               id,
			RowIndex:         i - 1,
			WindowPreference: pref,
			PriorExperience:  experienced,
			Gender:           gender,
			MeritScore:       score,
			Record:           record,
		})
	}

	return roster, nil
}

// ParsePreference reads a window preference code: 1, 2 or the flexible code
func ParsePreference(value, flexibleCode string) (model.WindowPreference, error) {
	switch v := strings.ToLower(value); {
	case v == "1":
		return model.PreferenceWindow1, nil
	case v == "2":
		return model.PreferenceWindow2, nil
	case v == strings.ToLower(flexibleCode), v == "flexible":
		return model.PreferenceFlexible, nil
	}
	return model.PreferenceUnset, fmt.Errorf("invalid window preference %q", value)
}

// ParseExperience reads a yes/no experience flag, German or English
func ParseExperience(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "ja", "yes", "y", "true", "1":
		return true, nil
	case "nein", "no", "n", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid experience flag %q", value)
}

// ParseGender reads the binary gender category
func ParseGender(value string) (model.Gender, error) {
	switch strings.ToLower(value) {
	case "m", "male":
		return model.GenderMale, nil
	case "nm", "non-male", "nonmale":
		return model.GenderNonMale, nil
	}
	return "", fmt.Errorf("invalid gender %q", value)
}

// ParseScore reads a merit score, accepting a comma or a dot as decimal separator
func ParseScore(value string) (float64, error) {
	score, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil || math.IsNaN(score) {
		return 0, fmt.Errorf("invalid merit score %q", value)
	}
	if score < MinMeritScore || score > MaxMeritScore {
		return 0, fmt.Errorf("merit score %v outside [%d, %d]", score, MinMeritScore, MaxMeritScore)
	}
	return score, nil
}
