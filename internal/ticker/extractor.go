// Package ticker extracts candidate stock symbols from free text and
// validates them against the market-data provider.
package ticker

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"reddit-stocks-analyzer/internal/interfaces"
	"reddit-stocks-analyzer/internal/logger"
	"reddit-stocks-analyzer/internal/pace"
)

// Dollar-prefixed 1-5 letter symbols, e.g. $AAPL. The only pattern cheap
// enough to keep false positives manageable.
var dollarTickerPattern = regexp.MustCompile(`\$([A-Z]{1,5})\b`)

// Extractor finds and validates ticker symbols in text.
type Extractor struct {
	md   interfaces.MarketData
	gate pace.Gate
	now  func() time.Time
}

// NewExtractor creates an extractor. The gate spaces validation calls to
// respect provider rate limits; pass pace.None() in tests.
func NewExtractor(md interfaces.MarketData, gate pace.Gate) *Extractor {
	return &Extractor{md: md, gate: gate, now: time.Now}
}

// Candidates returns the distinct dollar-prefixed symbols in text, without
// validation. Text is upper-cased first so $gme and $GME match alike.
func Candidates(text string) []string {
	matches := dollarTickerPattern.FindAllStringSubmatch(strings.ToUpper(text), -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Extract returns the validated ticker symbols found in text, sorted.
// Text with no candidates makes no provider calls.
func (e *Extractor) Extract(ctx context.Context, text string) []string {
	candidates := Candidates(text)
	if len(candidates) == 0 {
		return nil
	}

	logger.Debug(ctx, "Validating ticker candidates", "candidates", candidates)

	validated := make([]string, 0, len(candidates))
	for _, symbol := range candidates {
		if err := e.gate.Wait(ctx); err != nil {
			break
		}
		if e.validate(ctx, symbol) {
			validated = append(validated, symbol)
		}
	}
	sort.Strings(validated)
	return validated
}

// validate accepts a candidate only when the provider knows the symbol AND
// has at least one trading observation in the trailing 5 calendar days.
// Any provider error excludes the candidate; it never aborts the batch.
func (e *Extractor) validate(ctx context.Context, symbol string) bool {
	quote, err := e.md.Quote(ctx, symbol)
	if err != nil {
		logger.Debug(ctx, "Ticker validation failed", "symbol", symbol, "error", err)
		return false
	}
	if !quote.HasIdentity() {
		return false
	}

	end := e.now()
	hist, err := e.md.History(ctx, symbol, end.AddDate(0, 0, -5), end)
	if err != nil {
		logger.Debug(ctx, "Ticker history check failed", "symbol", symbol, "error", err)
		return false
	}
	return len(hist) > 0
}
