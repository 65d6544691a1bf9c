package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ExchangeDate converts a unix timestamp to the exchange-local calendar day,
// expressed as midnight UTC. gmtOffset is the exchange offset in seconds.
func ExchangeDate(unix int64, gmtOffset int) time.Time {
	return Date(time.Unix(unix+int64(gmtOffset), 0).UTC())
}

// PeriodStart returns the first day covered by a lookback period ending at
// now. Accepted forms: <n>d, <n>wk, <n>mo, <n>y, ytd and max.
func PeriodStart(now time.Time, period string) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	now = Date(now)
	switch p {
	case "":
		return time.Time{}, fmt.Errorf("empty period")
	case "max":
		return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), nil
	case "ytd":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	}

	var unit string
	for _, u := range []string{"wk", "mo", "d", "y"} {
		if strings.HasSuffix(p, u) {
			unit = u
			break
		}
	}
	n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
	if unit == "" || err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("invalid period %q", period)
	}
	switch unit {
	case "d":
		return now.AddDate(0, 0, -n), nil
	case "wk":
		return now.AddDate(0, 0, -7*n), nil
	case "mo":
		return now.AddDate(0, -n, 0), nil
	default:
		return now.AddDate(-n, 0, 0), nil
	}
}

// ValidPeriod reports whether PeriodStart accepts period.
func ValidPeriod(period string) bool {
	_, err := PeriodStart(time.Now(), period)
	return err == nil
}
