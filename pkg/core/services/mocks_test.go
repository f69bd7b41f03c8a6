package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/accreditation-draw/internal/config"
	"github.com/jakechorley/accreditation-draw/pkg/core/model"
	"github.com/jakechorley/accreditation-draw/pkg/db"
	"github.com/jakechorley/accreditation-draw/pkg/roster"
)

type mockLister struct {
	roster *model.Roster
	err    error
}

func (m *mockLister) ListApplicants(cfg *config.Config) (*model.Roster, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roster, nil
}

type writtenTable struct {
	header []string
	rows   [][]string
}

type mockSink struct {
	tables map[string]writtenTable
	order  []string
	err    error
}

func newMockSink() *mockSink {
	return &mockSink{tables: make(map[string]writtenTable)}
}

func (m *mockSink) WriteTable(name string, header []string, rows [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.tables[name] = writtenTable{header: header, rows: rows}
	m.order = append(m.order, name)
	return nil
}

func (m *mockSink) String() string {
	return "mock"
}

type mockStore struct {
	draws   []db.Draw
	entries map[string][]db.DrawEntry
	err     error
}

func newMockStore() *mockStore {
	return &mockStore{entries: make(map[string][]db.DrawEntry)}
}

func (m *mockStore) InsertDraw(ctx context.Context, draw *db.Draw, entries []db.DrawEntry) error {
	if m.err != nil {
		return m.err
	}
	m.draws = append(m.draws, *draw)
	m.entries[draw.ID] = entries
	return nil
}

func (m *mockStore) GetDraws(ctx context.Context) ([]db.Draw, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.draws, nil
}

func (m *mockStore) GetDrawEntries(ctx context.Context, drawID string) ([]db.DrawEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[drawID], nil
}

type rosterGroup struct {
	count       int
	preference  string
	experienced string
	gender      string
	score       string
}

var rosterHeader = []string{"Name", "Wochenpraeferenz", "AH", "Gender", "Ranking", "Uni"}

// buildRoster parses groups through the default layout so records carry every column
func buildRoster(groups ...rosterGroup) *model.Roster {
	rows := [][]string{rosterHeader}
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			n := len(rows) - 1
			rows = append(rows, []string{
				fmt.Sprintf("applicant-%02d", n),
				g.preference,
				g.experienced,
				g.gender,
				g.score,
				fmt.Sprintf("uni-%d", n%3),
			})
		}
	}

	parsed, err := roster.Parse(rows, roster.DefaultLayout())
	if err != nil {
		panic(err)
	}
	return parsed
}

func testConfig() *config.Config {
	return &config.Config{
		Roster: config.RosterConfig{Source: config.SourceCSV, CSVPath: "unused.csv"},
		Windows: []config.WindowConfig{
			{Name: "week1", Quota: 8},
			{Name: "week2", Quota: 8},
		},
		RetryBudget: 100,
	}
}
