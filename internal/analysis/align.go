package analysis

import (
	"time"

	"reddit-stocks-analyzer/internal/types"
)

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MatchOnOrAfter finds the earliest trading observation in series whose date
// is on or after target, and accepts it only when the gap from target is at
// most toleranceDays calendar days. It never matches a date before target:
// a return must come from a price that was actually tradable at or after
// the horizon, and the tolerance keeps a target that lands in a long
// trading halt from silently matching an arbitrarily distant price.
//
// The series must be ordered ascending by date.
func MatchOnOrAfter(series types.PriceSeries, target time.Time, toleranceDays int) (types.PricePoint, bool) {
	target = DayOf(target)
	for _, p := range series {
		if p.Date.Before(target) {
			continue
		}
		gap := int(p.Date.Sub(target).Hours() / 24)
		if gap <= toleranceDays {
			return p, true
		}
		// Ordered series: every later point is further from the target.
		return types.PricePoint{}, false
	}
	return types.PricePoint{}, false
}

// AnchorOn finds the earliest observation on or after the given calendar
// day, with no tolerance bound. The fetch window already bounds how far the
// anchor can drift from the post date.
func AnchorOn(series types.PriceSeries, day time.Time) (types.PricePoint, bool) {
	day = DayOf(day)
	for _, p := range series {
		if !p.Date.Before(day) {
			return p, true
		}
	}
	return types.PricePoint{}, false
}
