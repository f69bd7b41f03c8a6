package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/accreditation-draw/pkg/db"
)

// DrawListing is a recorded draw with the size of each of its tables
type DrawListing struct {
	Draw        db.Draw
	TableCounts map[string]int
}

// ListDraws returns the recorded draws, newest first as the store orders them
func ListDraws(ctx context.Context, store db.DrawStore, logger *zap.Logger) ([]DrawListing, error) {
	draws, err := store.GetDraws(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws: %w", err)
	}
	logger.Debug("Found draws", zap.Int("count", len(draws)))

	listings := make([]DrawListing, 0, len(draws))
	for _, d := range draws {
		entries, err := store.GetDrawEntries(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch entries for draw %s: %w", d.ID, err)
		}
		listings = append(listings, DrawListing{
			Draw:        d,
			TableCounts: db.TableCounts(entries),
		})
	}

	return listings, nil
}
