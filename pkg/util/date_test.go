package util

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	got := Date(time.Date(2024, 3, 15, 22, 30, 0, 0, ny))
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExchangeDate(t *testing.T) {
	// 2024-03-15 13:30 UTC is 09:30 in New York (EDT, -4h)
	ts := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC).Unix()
	got := ExchangeDate(ts, -4*3600)
	if !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got)
	}
	// 02:00 UTC is still the previous day in New York
	ts = time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC).Unix()
	if got := ExchangeDate(ts, -4*3600); got.Day() != 15 {
		t.Fatalf("expected previous day, got %v", got)
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"5y":  time.Date(2019, 6, 30, 0, 0, 0, 0, time.UTC),
		"6mo": time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC),
		"2wk": time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
		"10d": time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		"ytd": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"1Y":  time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	for p, want := range cases {
		got, err := PeriodStart(now, p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %v want %v", p, got, want)
		}
	}
	if got, err := PeriodStart(now, "max"); err != nil || got.Year() != 1900 {
		t.Fatalf("max: %v %v", got, err)
	}
}

func TestPeriodStartInvalid(t *testing.T) {
	for _, p := range []string{"", "y", "0y", "-1mo", "5q", "abc"} {
		if _, err := PeriodStart(time.Now(), p); err == nil {
			t.Fatalf("expected error for %q", p)
		}
		if ValidPeriod(p) {
			t.Fatalf("ValidPeriod(%q) = true", p)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected %v", got)
	}
	if NormalizeTicker(" msft ") != "MSFT" {
		t.Fatalf("normalize")
	}
}
