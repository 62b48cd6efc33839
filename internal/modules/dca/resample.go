package dca

import (
	"fmt"

	"github.com/avegas/cashfolio/internal/marketdata"
)

// Resample reduces a daily series to one bar per period, keeping the
// last observed bar within each calendar bucket. Buckets are explicit
// (day, ISO week, or year-month) so the behavior is portable and does
// not depend on any library's resample semantics. The input series is
// expected in ascending date order; output order follows the input.
func Resample(series []marketdata.PricePoint, freq Frequency) []marketdata.PricePoint {
	if len(series) == 0 {
		return nil
	}

	var keys []string
	last := make(map[string]marketdata.PricePoint)

	for _, bar := range series {
		key := bucketKey(bar, freq)
		if _, seen := last[key]; !seen {
			keys = append(keys, key)
		}
		last[key] = bar
	}

	out := make([]marketdata.PricePoint, 0, len(keys))
	for _, key := range keys {
		out = append(out, last[key])
	}
	return out
}

func bucketKey(bar marketdata.PricePoint, freq Frequency) string {
	switch freq {
	case Daily:
		return bar.Date.Format("2006-01-02")
	case Weekly:
		year, week := bar.Date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default: // Monthly
		return bar.Date.Format("2006-01")
	}
}
