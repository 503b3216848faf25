package pipeline

import (
	"strings"
	"time"
)

// Layouts accepted per format family. Slash dates are always day-first;
// everything else is treated as an ISO calendar date once any time-of-day
// suffix is cut off.
var (
	slashLayouts = []string{"2/01/2006", "2/1/2006"}
	isoLayouts   = []string{"2006-01-02", "2006-1-2"}
)

// ParseDate parses the mixed date formats seen across the deposit tables.
// Strings containing "/" parse strictly as day/month/year; otherwise the
// substring before the first space or "T" parses as a calendar date. The
// result is a timezone-naive date pinned to UTC midnight. ok is false on
// any failure; callers drop such records from the working set.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	layouts := isoLayouts
	if strings.Contains(s, "/") {
		layouts = slashLayouts
	} else {
		if i := strings.IndexAny(s, " T"); i >= 0 {
			s = s[:i]
		}
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// MonthEnd returns the last calendar day of d's month; report rows key
// their month on the closing day for display consistency.
func MonthEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
