package services

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/db"
)

// Table is one output table: a leading roster index column followed by the roster
// columns without the merit score
type Table struct {
	Name       string
	Stage      string
	Header     []string
	Rows       [][]string
	Applicants []model.Applicant
}

// buildTable orders applicants by roster position and renders them in the output layout
func buildTable(roster *model.Roster, name, stage string, applicants []model.Applicant) Table {
	ordered := slices.Clone(applicants)
	slices.SortStableFunc(ordered, func(a, b model.Applicant) int {
		return a.RowIndex - b.RowIndex
	})

	header := append([]string{""}, roster.OutputHeader()...)
	rows := make([][]string, len(ordered))
	for i, a := range ordered {
		rows[i] = append([]string{strconv.Itoa(a.RowIndex)}, roster.OutputRecord(a)...)
	}

	return Table{
		Name:       name,
		Stage:      stage,
		Header:     header,
		Rows:       rows,
		Applicants: ordered,
	}
}

// drawEntries flattens the tables into history entries
func drawEntries(drawID string, tables []Table) []db.DrawEntry {
	var entries []db.DrawEntry
	for _, t := range tables {
		for i, a := range t.Applicants {
			entries = append(entries, db.DrawEntry{
				DrawID:      drawID,
				TableName:   t.Name,
				Stage:       t.Stage,
				Position:    i,
				ApplicantID: a.ID,
				RowIndex:    a.RowIndex,
			})
		}
	}
	return entries
}

type constraintSummary struct {
	Name      string `json:"name"`
	Target    int    `json:"target"`
	Achieved  int    `json:"achieved"`
	Shortfall int    `json:"shortfall"`
	Satisfied bool   `json:"satisfied"`
}

type windowSummary struct {
	Name           string              `json:"name"`
	Quota          int                 `json:"quota"`
	Selected       int                 `json:"selected"`
	Satisfied      bool                `json:"satisfied"`
	FinalPool      string              `json:"finalPool"`
	Attempts       int                 `json:"attempts"`
	QuotaShortfall int                 `json:"quotaShortfall"`
	ToppedUp       int                 `json:"toppedUp"`
	Constraints    []constraintSummary `json:"constraints"`
}

type drawSummary struct {
	MovedToWindow1 int             `json:"movedToWindow1"`
	MovedToWindow2 int             `json:"movedToWindow2"`
	WaitingList    int             `json:"waitingList"`
	Windows        []windowSummary `json:"windows"`
}

// encodeSummary renders the reports stored alongside a draw
func encodeSummary(result *DrawResult) ([]byte, error) {
	summary := drawSummary{
		MovedToWindow1: result.Balance.MovedToWindow1,
		MovedToWindow2: result.Balance.MovedToWindow2,
		WaitingList:    len(result.WaitingList),
	}
	for _, w := range result.Windows {
		ws := windowSummary{
			Name:           w.Name,
			Quota:          w.Quota,
			Selected:       w.Report.Selected,
			Satisfied:      w.Report.Satisfied,
			FinalPool:      w.Report.FinalPool,
			Attempts:       w.Report.Attempts,
			QuotaShortfall: w.Report.QuotaShortfall,
			ToppedUp:       w.Report.ToppedUp,
		}
		for _, c := range w.Report.Constraints {
			ws.Constraints = append(ws.Constraints, constraintSummary{
				Name:      c.Name,
				Target:    c.Target,
				Achieved:  c.Achieved,
				Shortfall: c.Shortfall,
				Satisfied: c.Satisfied,
			})
		}
		summary.Windows = append(summary.Windows, ws)
	}
	return json.Marshal(summary)
}
