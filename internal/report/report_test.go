package report

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"reddit-stocks-analyzer/internal/types"
)

func ptr(v float64) *float64 { return &v }

func perfWith1D(ret float64) types.Performance {
	return types.Performance{
		Ticker:      "XYZ",
		PostDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PriceAtPost: 10,
		Return1D:    ptr(ret),
	}
}

func TestSummarizeKnownDistribution(t *testing.T) {
	perfs := []types.Performance{
		perfWith1D(5), perfWith1D(-5), perfWith1D(15), perfWith1D(-15), perfWith1D(25),
	}

	stats := Summarize(perfs, types.DefaultHorizons())
	if len(stats) != 1 {
		t.Fatalf("expected only the 1d horizon populated, got %d", len(stats))
	}

	s := stats[0]
	if s.Label != "1d" || s.Count != 5 {
		t.Errorf("label/count = %s/%d", s.Label, s.Count)
	}
	if s.Mean != 5.0 {
		t.Errorf("mean = %v, want 5.0", s.Mean)
	}
	if s.Median != 5.0 {
		t.Errorf("median = %v, want 5.0", s.Median)
	}
	if s.WinRate != 40.0 {
		t.Errorf("win rate = %v, want 40.0", s.WinRate)
	}
	if s.Over10 != 2 {
		t.Errorf("over 10%% = %d, want 2", s.Over10)
	}
	if s.Over25 != 0 {
		t.Errorf("over 25%% = %d, want 0 (25 is not > 25)", s.Over25)
	}
	if s.UnderMinus10 != 1 {
		t.Errorf("under -10%% = %d, want 1", s.UnderMinus10)
	}
	if s.Best != 25 || s.Worst != -15 {
		t.Errorf("best/worst = %v/%v", s.Best, s.Worst)
	}
	if s.Positive != 2 || s.Negative != 3 {
		t.Errorf("positive/negative = %d/%d", s.Positive, s.Negative)
	}

	// Sample std dev of [5,-5,15,-15,25] with mean 5.
	want := math.Sqrt((0 + 100 + 100 + 400 + 400) / 4.0)
	if math.Abs(s.StdDev-want) > 1e-9 {
		t.Errorf("stddev = %v, want %v", s.StdDev, want)
	}
}

func TestSummarizeOmitsEmptyHorizons(t *testing.T) {
	perfs := []types.Performance{perfWith1D(3)}
	stats := Summarize(perfs, types.DefaultHorizons())
	for _, s := range stats {
		if s.Label != "1d" {
			t.Errorf("unexpected populated horizon %s", s.Label)
		}
	}
	if len(stats) != 1 {
		t.Errorf("expected 1 horizon, got %d", len(stats))
	}
}

func TestSummarizeNoData(t *testing.T) {
	if stats := Summarize(nil, types.DefaultHorizons()); len(stats) != 0 {
		t.Errorf("expected no stats, got %d", len(stats))
	}
}

func TestMedianEvenCount(t *testing.T) {
	perfs := []types.Performance{perfWith1D(1), perfWith1D(2), perfWith1D(3), perfWith1D(4)}
	stats := Summarize(perfs, types.DefaultHorizons())
	if stats[0].Median != 2.5 {
		t.Errorf("median = %v, want 2.5", stats[0].Median)
	}
}

func TestSingleObservationStdDevZero(t *testing.T) {
	stats := Summarize([]types.Performance{perfWith1D(7)}, types.DefaultHorizons())
	if stats[0].StdDev != 0 {
		t.Errorf("stddev of one observation = %v, want 0", stats[0].StdDev)
	}
}

func TestRender(t *testing.T) {
	perfs := []types.Performance{perfWith1D(5), perfWith1D(-5)}
	stats := Summarize(perfs, types.DefaultHorizons())

	var buf bytes.Buffer
	Render(&buf, len(perfs), stats)
	out := buf.String()

	for _, want := range []string{
		"Total stocks analyzed: 2",
		"1d Performance:",
		"Win rate: 50.0%",
		"Mean return: 0.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "1m Performance:") {
		t.Error("empty horizons must not be rendered")
	}
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()
	perfs := []types.Performance{
		perfWith1D(5), perfWith1D(-5), perfWith1D(15),
	}

	written, err := WriteCharts(dir, perfs, types.DefaultHorizons())
	if err != nil {
		t.Fatalf("WriteCharts: %v", err)
	}

	// One histogram for the populated horizon plus the win-rate summary.
	if len(written) != 2 {
		t.Fatalf("expected 2 charts, got %d: %v", len(written), written)
	}
	for _, p := range written {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("chart %s not written: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("chart %s is empty", p)
		}
	}
}

func TestWriteChartsNoData(t *testing.T) {
	written, err := WriteCharts(t.TempDir(), nil, types.DefaultHorizons())
	if err != nil {
		t.Fatalf("WriteCharts: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("expected no charts for empty data, got %v", written)
	}
}
