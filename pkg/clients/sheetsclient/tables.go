package sheetsclient

import (
	"fmt"
	"slices"
	"strings"
)

// sheetWriter is the part of Client a TableSink needs
type sheetWriter interface {
	SheetTitles(spreadsheetID string) ([]string, error)
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	ClearValues(spreadsheetID, sheetRange string) error
	UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error
}

// TableSink writes result tables as tabs of one spreadsheet
type TableSink struct {
	client        sheetWriter
	spreadsheetID string
}

// NewTableSink creates a sink for the given spreadsheet
func NewTableSink(client sheetWriter, spreadsheetID string) *TableSink {
	return &TableSink{
		client:        client,
		spreadsheetID: spreadsheetID,
	}
}

// String names the sink in logs
func (s *TableSink) String() string {
	return "sheets:" + s.spreadsheetID
}

// WriteTable replaces the contents of the tab called name, creating the tab if it is missing
func (s *TableSink) WriteTable(name string, header []string, rows [][]string) error {
	titles, err := s.client.SheetTitles(s.spreadsheetID)
	if err != nil {
		return err
	}

	tab := quoteTitle(name)
	if slices.Contains(titles, name) {
		if err := s.client.ClearValues(s.spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to clear tab %s: %w", name, err)
		}
	} else {
		if _, err := s.client.CreateSheet(s.spreadsheetID, name); err != nil {
			return fmt.Errorf("failed to create tab %s: %w", name, err)
		}
	}

	if err := s.client.UpdateValues(s.spreadsheetID, tab, tableValues(header, rows)); err != nil {
		return fmt.Errorf("failed to write tab %s: %w", name, err)
	}

	return nil
}

// tableValues converts a header and rows into the cell layout the API expects
func tableValues(header []string, rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows)+1)
	for _, row := range append([][]string{header}, rows...) {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}
	return values
}

// quoteTitle turns a tab title into an A1 range covering the whole tab
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
