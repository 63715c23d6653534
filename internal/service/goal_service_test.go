package service

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestExpectedProgressPct(t *testing.T) {
	created := day(2026, 8, 1)

	cases := []struct {
		name string
		exam time.Time
		now  time.Time
		want float64
	}{
		{"halfway", day(2026, 8, 21), day(2026, 8, 11), 50},
		{"first day", day(2026, 8, 21), day(2026, 8, 1), 0},
		{"exam day", day(2026, 8, 21), day(2026, 8, 21), 100},
		{"past exam clamps to 100", day(2026, 8, 21), day(2026, 9, 5), 100},
		{"exam same day as creation", day(2026, 8, 1), day(2026, 8, 1), 100},
		{"now before creation clamps to 0", day(2026, 8, 21), day(2026, 7, 20), 0},
		{"quarter with rounding", day(2026, 8, 8), day(2026, 8, 3), 28.6}, // 2/7 天
	}
	for _, c := range cases {
		if got := expectedProgressPct(created, c.exam, c.now); got != c.want {
			t.Errorf("%s: expectedProgressPct = %f, want %f", c.name, got, c.want)
		}
	}
}

func TestExpectedProgressPct_IgnoresTimeOfDay(t *testing.T) {
	// 进度按自然日计算，一天内的不同时刻结果相同
	created := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	exam := time.Date(2026, 8, 11, 0, 1, 0, 0, time.UTC)

	morning := expectedProgressPct(created, exam, time.Date(2026, 8, 6, 1, 0, 0, 0, time.UTC))
	evening := expectedProgressPct(created, exam, time.Date(2026, 8, 6, 23, 0, 0, 0, time.UTC))
	if morning != evening {
		t.Errorf("progress should not depend on time of day: %f vs %f", morning, evening)
	}
	if morning != 50 {
		t.Errorf("expected 50%% halfway through, got %f", morning)
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 8, 30, 18, 45, 12, 300, time.UTC)
	got := startOfDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("startOfDay left time-of-day components: %v", got)
	}
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 30 {
		t.Errorf("startOfDay changed the date: %v", got)
	}
}
