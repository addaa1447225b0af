package schedule

import (
	"testing"
	"time"
)

func TestParseDate_PinsToLocalNoon(t *testing.T) {
	got, ok := ParseDate("2024-03-10")
	if !ok {
		t.Fatal("expected valid date")
	}
	if got.Hour() != 12 {
		t.Errorf("expected noon, got hour %d", got.Hour())
	}
	if got.Location() != time.Local {
		t.Error("expected local location")
	}
	if got.Weekday() != time.Sunday {
		t.Errorf("2024-03-10 is a Sunday, got %v", got.Weekday())
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"", "2024-3-1", "03/10/2024", "nonsense"} {
		if _, ok := ParseDate(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestWeeksBetween_SundayAligned(t *testing.T) {
	// Monday and Wednesday of the same week are zero weeks apart.
	mon, _ := ParseDate("2024-01-01")
	wed, _ := ParseDate("2024-01-03")
	if got := weeksBetween(mon, wed); got != 0 {
		t.Errorf("expected 0 weeks within one week, got %d", got)
	}

	// Saturday to the following Sunday crosses a week boundary even
	// though only one day passes.
	sat, _ := ParseDate("2024-01-06")
	sun, _ := ParseDate("2024-01-07")
	if got := weeksBetween(sat, sun); got != 1 {
		t.Errorf("expected 1 week across the Sunday boundary, got %d", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	a, _ := ParseDate("2024-01-31")
	b, _ := ParseDate("2024-03-31")
	if got := monthsBetween(a, b); got != 2 {
		t.Errorf("expected 2 months, got %d", got)
	}

	c, _ := ParseDate("2023-11-15")
	d, _ := ParseDate("2024-02-15")
	if got := monthsBetween(c, d); got != 3 {
		t.Errorf("expected 3 months across the year boundary, got %d", got)
	}
}
