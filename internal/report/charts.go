package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"reddit-stocks-analyzer/internal/types"
)

const histogramBins = 12

// WriteCharts renders a return-distribution histogram per populated
// horizon plus a win-rate summary chart into dir, and returns the paths
// written. Horizons with no data get no chart.
func WriteCharts(dir string, perfs []types.Performance, horizons []types.Horizon) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	var summary []chart.Value

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

		path := filepath.Join(dir, fmt.Sprintf("returns_%s.png", h.Label))
		if err := writeHistogram(path, h.Label, returns); err != nil {
			return written, fmt.Errorf("render %s histogram: %w", h.Label, err)
		}
		written = append(written, path)

		wins := 0
		for _, r := range returns {
			if r > 0 {
				wins++
			}
		}
		summary = append(summary, chart.Value{
			Label: h.Label,
			Value: float64(wins) / float64(len(returns)) * 100,
		})
	}

	if len(summary) > 0 {
		path := filepath.Join(dir, "win_rates.png")
		if err := writeWinRates(path, summary); err != nil {
			return written, fmt.Errorf("render win rates: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func writeHistogram(path, label string, returns []float64) error {
	lo, hi := returns[0], returns[0]
	for _, r := range returns {
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	width := (hi - lo) / histogramBins
	if width == 0 {
		width = 1
	}

	counts := make([]int, histogramBins)
	for _, r := range returns {
		bin := int((r - lo) / width)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	bars := make([]chart.Value, histogramBins)
	for i, c := range counts {
		center := lo + (float64(i)+0.5)*width
		bars[i] = chart.Value{Label: fmt.Sprintf("%.0f", center), Value: float64(c)}
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s returns distribution (%%)", label),
		Height:   512,
		BarWidth: 36,
		Bars:     bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}

func writeWinRates(path string, values []chart.Value) error {
	graph := chart.BarChart{
		Title:    "Win rate by horizon (%)",
		Height:   512,
		BarWidth: 48,
		Bars:     values,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return graph.Render(chart.PNG, f)
}
