package domain

import "time"

// PeriodStartFor returns the start of the settlement period containing t.
// Monthly periods anchor on dayOfMonth (clamped to the month's length);
// weekly periods run Monday to Sunday and ignore dayOfMonth.
func PeriodStartFor(freq SettlementFrequency, dayOfMonth int, t time.Time) time.Time {
	switch freq {
	case FrequencyWeekly:
		offset := (int(t.Weekday()) + 6) % 7 // days since Monday
		d := t.AddDate(0, 0, -offset)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
	default:
		if dayOfMonth < 1 {
			dayOfMonth = 1
		}
		y, m := t.Year(), t.Month()
		anchor := monthAnchor(y, m, dayOfMonth, t.Location())
		if t.Before(anchor) {
			m--
			if m == 0 {
				m = time.December
				y--
			}
			anchor = monthAnchor(y, m, dayOfMonth, t.Location())
		}
		return anchor
	}
}

// PeriodEndFor returns the exclusive end of the period beginning at start
func PeriodEndFor(freq SettlementFrequency, dayOfMonth int, start time.Time) time.Time {
	if freq == FrequencyWeekly {
		return start.AddDate(0, 0, 7)
	}
	if dayOfMonth < 1 {
		dayOfMonth = 1
	}
	y, m := start.Year(), start.Month()
	m++
	if m > time.December {
		m = time.January
		y++
	}
	return monthAnchor(y, m, dayOfMonth, start.Location())
}

// monthAnchor returns midnight on day-of-month clamped to the month's last day
func monthAnchor(y int, m time.Month, day int, loc *time.Location) time.Time {
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// LastDayOfMonth returns midnight on the final calendar day of t's month
func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}
