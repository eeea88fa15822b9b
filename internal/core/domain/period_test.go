package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodStartForMonthly(t *testing.T) {
	tests := []struct {
		name       string
		dayOfMonth int
		at         time.Time
		want       time.Time
	}{
		{"before anchor falls into previous month", 15, date(2024, 3, 10), date(2024, 2, 15)},
		{"on anchor", 15, date(2024, 3, 15), date(2024, 3, 15)},
		{"after anchor", 15, date(2024, 3, 20), date(2024, 3, 15)},
		{"january rolls back to december", 15, date(2024, 1, 10), date(2023, 12, 15)},
		{"day 31 clamps in february", 31, date(2024, 3, 5), date(2024, 2, 29)},
		{"day 31 clamps in short month", 31, date(2023, 3, 5), date(2023, 2, 28)},
		{"zero day defaults to first", 0, date(2024, 3, 5), date(2024, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodStartFor(FrequencyMonthly, tt.dayOfMonth, tt.at)
			if !got.Equal(tt.want) {
				t.Fatalf("PeriodStartFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeriodEndForMonthly(t *testing.T) {
	// period [Feb 29, Mar 31) for a day-31 anchor
	end := PeriodEndFor(FrequencyMonthly, 31, date(2024, 2, 29))
	if !end.Equal(date(2024, 3, 31)) {
		t.Fatalf("end = %v, want 2024-03-31", end)
	}

	// december rolls into january
	end = PeriodEndFor(FrequencyMonthly, 1, date(2024, 12, 1))
	if !end.Equal(date(2025, 1, 1)) {
		t.Fatalf("end = %v, want 2025-01-01", end)
	}
}

func TestPeriodStartForWeekly(t *testing.T) {
	// 2024-03-06 is a Wednesday; the week starts Monday 2024-03-04
	start := PeriodStartFor(FrequencyWeekly, 1, date(2024, 3, 6))
	if !start.Equal(date(2024, 3, 4)) {
		t.Fatalf("start = %v, want 2024-03-04", start)
	}

	// a Monday is its own period start
	start = PeriodStartFor(FrequencyWeekly, 1, date(2024, 3, 4))
	if !start.Equal(date(2024, 3, 4)) {
		t.Fatalf("monday start = %v, want 2024-03-04", start)
	}

	// a Sunday belongs to the preceding Monday's week
	start = PeriodStartFor(FrequencyWeekly, 1, date(2024, 3, 10))
	if !start.Equal(date(2024, 3, 4)) {
		t.Fatalf("sunday start = %v, want 2024-03-04", start)
	}

	end := PeriodEndFor(FrequencyWeekly, 1, date(2024, 3, 4))
	if !end.Equal(date(2024, 3, 11)) {
		t.Fatalf("end = %v, want 2024-03-11", end)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := LastDayOfMonth(date(2024, 2, 10)); !got.Equal(date(2024, 2, 29)) {
		t.Fatalf("leap february: got %v", got)
	}
	if got := LastDayOfMonth(date(2024, 4, 1)); !got.Equal(date(2024, 4, 30)) {
		t.Fatalf("april: got %v", got)
	}
}
