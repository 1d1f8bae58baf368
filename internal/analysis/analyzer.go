// Package analysis computes post-relative forward returns for ticker
// mentions, aligning calendar-day horizons onto a sparse trading calendar.
package analysis

import (
	"context"
	"fmt"
	"time"

	"reddit-stocks-analyzer/internal/interfaces"
	"reddit-stocks-analyzer/internal/logger"
	"reddit-stocks-analyzer/internal/pace"
	"reddit-stocks-analyzer/internal/types"
)

// toleranceDays is the maximum gap between a horizon's target date and the
// matched trading date. It tolerates weekends and holiday clusters but not
// multi-week gaps.
const toleranceDays = 5

// windowTrailing/windowForward bound the price fetch around the post date.
// Forward must cover the largest horizon plus tolerance.
const (
	windowTrailing = 1
	windowForward  = 35
)

// Analyzer computes performance records from mentions.
type Analyzer struct {
	md       interfaces.MarketData
	gate     pace.Gate
	horizons []types.Horizon
}

// New creates an analyzer. The gate spaces history fetches; pass
// pace.None() in tests. Nil horizons fall back to the standard table.
func New(md interfaces.MarketData, gate pace.Gate, horizons []types.Horizon) *Analyzer {
	if len(horizons) == 0 {
		horizons = types.DefaultHorizons()
	}
	return &Analyzer{md: md, gate: gate, horizons: horizons}
}

// Outcome is the per-pair result of the batch: either a performance record
// or a skip with its reason. Skips never abort the batch.
type Outcome struct {
	Ticker string
	Day    time.Time
	Perf   *types.Performance
	Skip   string
}

// Skipped reports whether this pair produced no record.
func (o Outcome) Skipped() bool { return o.Perf == nil }

// CalculatePerformance computes one performance record per distinct
// (ticker, calendar day) pair in mentions, in input order. For pairs
// mentioned more than once, the first occurrence wins and its full
// timestamp drives the price window.
func (a *Analyzer) CalculatePerformance(ctx context.Context, mentions []types.Mention) []Outcome {
	type pairKey struct {
		ticker string
		day    time.Time
	}
	seen := make(map[pairKey]bool, len(mentions))

	var outcomes []Outcome
	for _, m := range mentions {
		day := DayOf(m.PostDate)
		key := pairKey{ticker: m.Ticker, day: day}
		if seen[key] {
			continue
		}
		seen[key] = true

		if err := a.gate.Wait(ctx); err != nil {
			logger.Warn(ctx, "Analysis interrupted", "error", err)
			break
		}

		outcomes = append(outcomes, a.analyzePair(ctx, m, day))
	}
	return outcomes
}

// Performances extracts the emitted records from a batch of outcomes.
func Performances(outcomes []Outcome) []types.Performance {
	out := make([]types.Performance, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Perf != nil {
			out = append(out, *o.Perf)
		}
	}
	return out
}

func (a *Analyzer) analyzePair(ctx context.Context, m types.Mention, day time.Time) Outcome {
	logger.Info(ctx, "Analyzing ticker", "ticker", m.Ticker, "post_date", day.Format("2006-01-02"))

	start := day.AddDate(0, 0, -windowTrailing)
	end := day.AddDate(0, 0, windowForward)

	series, err := a.md.History(ctx, m.Ticker, start, end)
	if err != nil {
		logger.Warn(ctx, "Price fetch failed, skipping", "ticker", m.Ticker, "error", err)
		return Outcome{Ticker: m.Ticker, Day: day, Skip: fmt.Sprintf("price fetch failed: %v", err)}
	}
	if len(series) == 0 {
		logger.Info(ctx, "No price data, skipping", "ticker", m.Ticker)
		return Outcome{Ticker: m.Ticker, Day: day, Skip: "no data"}
	}

	anchor, ok := AnchorOn(series, day)
	if !ok {
		logger.Info(ctx, "No trading data on or after post date, skipping", "ticker", m.Ticker)
		return Outcome{Ticker: m.Ticker, Day: day, Skip: "no trading date on or after post date"}
	}

	perf := &types.Performance{
		Ticker:      m.Ticker,
		PostDate:    m.PostDate,
		PriceAtPost: anchor.Close,
	}

	for _, h := range a.horizons {
		target := day.AddDate(0, 0, h.Days)
		match, ok := MatchOnOrAfter(series, target, toleranceDays)
		if !ok {
			continue
		}
		ret := (match.Close - anchor.Close) / anchor.Close * 100
		perf.SetHorizon(h.Label, match.Close, ret)
	}

	return Outcome{Ticker: m.Ticker, Day: day, Perf: perf}
}
