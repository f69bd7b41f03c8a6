package sheetsclient

import (
	"fmt"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/roster"
)

// ListApplicants retrieves and parses the roster tab named in the configuration
func (c *Client) ListApplicants(cfg *config.Config) (*model.Roster, error) {
	values, err := c.GetValues(cfg.Roster.SheetID, quoteTitle(cfg.Roster.Tab))
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	parsed, err := roster.Parse(toRows(values), cfg.Roster.Layout())
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	return parsed, nil
}

// toRows converts raw spreadsheet cells into strings. Numbers arrive as formatted strings
// with the default value render option, anything else is printed as is.
func toRows(raw [][]interface{}) [][]string {
	rows := make([][]string, len(raw))
	for i, row := range raw {
		cells := make([]string, len(row))
		for j, cell := range row {
			if str, ok := cell.(string); ok {
				cells[j] = str
			} else if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = cells
	}
	return rows
}
