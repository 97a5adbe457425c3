package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CanonicalDateLayout is the stored form of Event.Date: an ISO-8601 UTC
// instant with millisecond precision.
const CanonicalDateLayout = "2006-01-02T15:04:05.000Z"

// Date parses an arbitrary date string and returns its canonical UTC instant.
// Inputs without an explicit zone are read as UTC.
func Date(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	t, err := parseAny(raw)
	if err != nil {
		var ok bool
		if t, ok = parseMonthYear(raw); !ok {
			return "", fmt.Errorf("%w: %q: expected a parseable date", ErrInvalidDate, raw)
		}
	}
	return t.UTC().Format(CanonicalDateLayout), nil
}

// monthYearLayouts name a whole month, read as its first day.
var monthYearLayouts = []string{"January 2006", "Jan 2006"}

func parseMonthYear(raw string) (time.Time, bool) {
	for _, layout := range monthYearLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ContextDate returns the calendar-day part (YYYY-MM-DD) of a canonical date,
// or "" when the value is too short to carry one.
func ContextDate(canonical string) string {
	if len(canonical) < 10 {
		return ""
	}
	return canonical[:10]
}

// parseAny reads s with general-purpose date parsing, zone-less values as UTC.
// dateparse can panic on some malformed inputs; that is reported as an error.
func parseAny(s string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %q: %v", s, r)
		}
	}()
	return dateparse.ParseIn(s, time.UTC)
}
