package db

import "time"

// Entry stages
const (
	StageSelected    = "selected"
	StageWaitingList = "waitinglist"
)

// Draw is one recorded run of the accreditation draw
type Draw struct {
	ID         string
	CreatedAt  time.Time
	Seed       string // Decimal; uint64 seeds overflow BIGINT
	RosterSize int
	Satisfied  bool   // Every window met every constraint
	Summary    []byte // JSON encoded window reports
}

// DrawEntry places one applicant in one output table of a draw
type DrawEntry struct {
	DrawID      string
	TableName   string
	Stage       string
	Position    int // Order within the table
	ApplicantID string
	RowIndex    int
}

// TableCounts returns the number of entries per table name
func TableCounts(entries []DrawEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.TableName]++
	}
	return counts
}
