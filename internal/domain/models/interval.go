package models

import (
	"strings"
	"time"
)

// Interval is the sampling frequency of the price and rate series.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// Intervals lists the supported sampling intervals.
func Intervals() []Interval {
	return []Interval{IntervalDaily, IntervalWeekly, IntervalMonthly}
}

// ParseInterval normalizes user input into a supported Interval.
// Provider spellings (1d, 1wk, 1mo) are accepted as aliases.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "1d":
		return IntervalDaily, nil
	case "weekly", "week", "1wk", "1w":
		return IntervalWeekly, nil
	case "monthly", "month", "1mo", "1m":
		return IntervalMonthly, nil
	default:
		return "", NewUnsupportedIntervalError("parse interval", s)
	}
}

// PeriodsPerYear returns the compounding frequency for the interval, or 0
// when the interval is not supported.
func (iv Interval) PeriodsPerYear() int {
	switch iv {
	case IntervalDaily:
		return 252
	case IntervalWeekly:
		return 52
	case IntervalMonthly:
		return 12
	default:
		return 0
	}
}

// Valid reports whether iv is one of the supported intervals.
func (iv Interval) Valid() bool { return iv.PeriodsPerYear() > 0 }

// ProviderCode returns the interval spelling used by chart providers.
func (iv Interval) ProviderCode() string {
	switch iv {
	case IntervalDaily:
		return "1d"
	case IntervalWeekly:
		return "1wk"
	case IntervalMonthly:
		return "1mo"
	default:
		return string(iv)
	}
}

func (iv Interval) String() string { return string(iv) }

// Validate returns an UnsupportedIntervalError for unknown intervals.
func (iv Interval) Validate() error {
	if !iv.Valid() {
		return NewUnsupportedIntervalError("validate interval", string(iv))
	}
	return nil
}

// BucketStart maps a calendar day to the first day of its sampling period:
// the day itself, the Monday of its week, or the first of its month.
// Unsupported intervals return the day unchanged.
func (iv Interval) BucketStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch iv {
	case IntervalWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case IntervalMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}
