package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/accreditation-draw/pkg/db"
)

// InsertDraw records a draw and its entries in a single transaction
func (d *DB) InsertDraw(ctx context.Context, draw *db.Draw, entries []db.DrawEntry) error {
	parsed, err := uuid.Parse(draw.ID)
	if err != nil {
		return fmt.Errorf("invalid draw id %q: %w", draw.ID, err)
	}
	id := [16]byte(parsed)

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	summary := draw.Summary
	if len(summary) == 0 {
		summary = []byte("{}")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO draw (id, created_at, seed, roster_size, satisfied, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, draw.CreatedAt.UTC(), draw.Seed, draw.RosterSize, draw.Satisfied, string(summary))
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}

	if len(entries) > 0 {
		rows := make([][]any, len(entries))
		for i, e := range entries {
			rows[i] = []any{id, e.TableName, e.Stage, e.Position, e.ApplicantID, e.RowIndex}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"draw_entry"},
			[]string{"draw_id", "table_name", "stage", "position", "applicant_id", "row_index"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert draw entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDraws retrieves all draws, newest first
func (d *DB) GetDraws(ctx context.Context) ([]db.Draw, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, created_at, seed, roster_size, satisfied, summary::text
		FROM draw
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var draws []db.Draw
	for rows.Next() {
		var r db.Draw
		var summary string
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.RosterSize, &r.Satisfied, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		r.Summary = []byte(summary)
		draws = append(draws, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}

	return draws, nil
}

// GetDrawEntries retrieves the entries of one draw in table order
func (d *DB) GetDrawEntries(ctx context.Context, drawID string) ([]db.DrawEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT draw_id::text, table_name, stage, position, applicant_id, row_index
		FROM draw_entry
		WHERE draw_id::text = $1
		ORDER BY table_name, position
	`, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to query draw entries: %w", err)
	}
	defer rows.Close()

	var entries []db.DrawEntry
	for rows.Next() {
		var e db.DrawEntry
		if err := rows.Scan(&e.DrawID, &e.TableName, &e.Stage, &e.Position, &e.ApplicantID, &e.RowIndex); err != nil {
			return nil, fmt.Errorf("failed to scan draw entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw entries: %w", err)
	}

	return entries, nil
}
