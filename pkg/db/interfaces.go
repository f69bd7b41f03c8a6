package db

import "context"

// DrawStore defines the interface for draw history operations
type DrawStore interface {
	InsertDraw(ctx context.Context, draw *Draw, entries []DrawEntry) error
	GetDraws(ctx context.Context) ([]Draw, error)
	GetDrawEntries(ctx context.Context, drawID string) ([]DrawEntry, error)
}
