package interfaces

import (
	"context"
	"time"

	"reddit-stocks-analyzer/internal/types"
)

// MarketData is the narrow contract against the external market-data
// provider. History returns an empty series when the provider has no
// observations for the window; callers treat errors as skippable.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*types.Quote, error)
	History(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error)
}
