package interfaces

import (
	"context"

	"reddit-stocks-analyzer/internal/types"
)

// Store persists mentions and performance rows. Writes use upsert
// semantics on the natural keys (ticker, post_id) and (ticker, post_date);
// duplicate keys are resolved last-write-wins, never surfaced as errors.
type Store interface {
	SaveMentions(ctx context.Context, mentions []types.Mention) error
	SavePerformances(ctx context.Context, perfs []types.Performance) (int, error)
	// PerformanceRows returns rows where at least one horizon return is set.
	PerformanceRows(ctx context.Context) ([]types.Performance, error)
	Close() error
}
