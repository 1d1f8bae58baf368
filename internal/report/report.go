// Package report aggregates stored performance rows into per-horizon
// profitability statistics and renders them.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"reddit-stocks-analyzer/internal/types"
)

// HorizonStats summarizes returns at one horizon. All percentages are in
// return units (signed percent); WinRate is 0-100.
type HorizonStats struct {
	Label        string
	Count        int
	Mean         float64
	Median       float64
	StdDev       float64
	WinRate      float64
	Positive     int
	Negative     int
	Best         float64
	Worst        float64
	Over10       int
	Over25       int
	UnderMinus10 int
}

// Summarize computes stats per horizon over rows with a return at that
// horizon. Horizons with no populated rows are omitted, not zeroed.
func Summarize(perfs []types.Performance, horizons []types.Horizon) []HorizonStats {
	var out []HorizonStats
	for _, h := range horizons {
		var returns []float64
		for i := range perfs {
			if r := perfs[i].HorizonReturn(h.Label); r != nil {
				returns = append(returns, *r)
			}
		}
		if len(returns) == 0 {
			continue
		}
		out = append(out, summarizeReturns(h.Label, returns))
	}
	return out
}

func summarizeReturns(label string, returns []float64) HorizonStats {
	s := HorizonStats{Label: label, Count: len(returns)}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	s.Best = sorted[len(sorted)-1]
	s.Worst = sorted[0]
	s.Median = median(sorted)

	var sum float64
	for _, r := range returns {
		sum += r
		if r > 0 {
			s.Positive++
		}
		if r < 0 {
			s.Negative++
		}
		if r > 10 {
			s.Over10++
		}
		if r > 25 {
			s.Over25++
		}
		if r < -10 {
			s.UnderMinus10++
		}
	}
	s.Mean = sum / float64(len(returns))
	s.WinRate = float64(s.Positive) / float64(len(returns)) * 100
	s.StdDev = sampleStdDev(returns, s.Mean)
	return s
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdDev uses the n-1 denominator; a single observation has no
// defined spread and reports zero.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// Render writes the profitability summary in a human-readable layout.
// Formatting (rounding) happens only here, never on stored values.
func Render(w io.Writer, totalAnalyzed int, stats []HorizonStats) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "PROFITABILITY ANALYSIS RESULTS")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Total stocks analyzed: %d\n\n", totalAnalyzed)

	if len(stats) == 0 {
		fmt.Fprintln(w, "No populated horizons.")
		return
	}

	for _, s := range stats {
		fmt.Fprintf(w, "%s Performance:\n", s.Label)
		fmt.Fprintf(w, "  Sample size: %d\n", s.Count)
		fmt.Fprintf(w, "  Mean return: %.2f%%\n", s.Mean)
		fmt.Fprintf(w, "  Median return: %.2f%%\n", s.Median)
		fmt.Fprintf(w, "  Std deviation: %.2f\n", s.StdDev)
		fmt.Fprintf(w, "  Win rate: %.1f%%\n", s.WinRate)
		fmt.Fprintf(w, "  Best return: %.2f%%\n", s.Best)
		fmt.Fprintf(w, "  Worst return: %.2f%%\n", s.Worst)
		fmt.Fprintf(w, "  Returns > 10%%: %d\n", s.Over10)
		fmt.Fprintf(w, "  Returns > 25%%: %d\n", s.Over25)
		fmt.Fprintf(w, "  Returns < -10%%: %d\n\n", s.UnderMinus10)
	}
}
