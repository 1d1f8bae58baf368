package interfaces

import (
	"context"

	"reddit-stocks-analyzer/internal/types"
)

// MentionSource produces validated ticker mentions from a forum. An invalid
// sort mode in the options is a configuration error returned before any
// network call.
type MentionSource interface {
	FetchMentions(ctx context.Context, opts types.FetchOptions) ([]types.Mention, error)
}
