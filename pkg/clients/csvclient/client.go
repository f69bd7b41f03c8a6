package csvclient

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/roster"
)

const utf8BOM = "\uFEFF"

// Client reads rosters from delimited files and writes result tables into a directory
type Client struct {
	outDir string
}

// NewClient creates a client that writes tables into outDir
func NewClient(outDir string) *Client {
	return &Client{outDir: outDir}
}

// String names the sink in logs
func (c *Client) String() string {
	return "csv:" + c.outDir
}

// ReadRows reads every record of a delimited file. Rows may have different lengths.
func ReadRows(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Spreadsheet exports often start with a byte order mark
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}

	return rows, nil
}

// ListApplicants reads and parses the roster file named in the configuration
func (c *Client) ListApplicants(cfg *config.Config) (*model.Roster, error) {
	delimiter := ','
	if cfg.Roster.Delimiter != "" {
		delimiter = []rune(cfg.Roster.Delimiter)[0]
	}

	rows, err := ReadRows(cfg.Roster.CSVPath, delimiter)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("roster file %s is empty", cfg.Roster.CSVPath)
	}

	parsed, err := roster.Parse(rows, cfg.Roster.Layout())
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	return parsed, nil
}

// WriteTable writes <outDir>/<name>.csv, replacing any existing file
func (c *Client) WriteTable(name string, header []string, rows [][]string) error {
	if err := os.MkdirAll(c.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(c.outDir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
