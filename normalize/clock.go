package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const epochDate = "1970-01-01"

var (
	clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*(AM|PM))?$`)
	// hourPattern is a bare hour, which only reads as a time with a meridiem.
	hourPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s*(AM|PM)$`)
	// clockComponent gates the general parse: without H:MM in the input,
	// dateparse fills the clock in from nothing.
	clockComponent = regexp.MustCompile(`\d{1,2}:\d{2}`)
	zoneName       = regexp.MustCompile(`(?i)[a-z]{3,}$`)
)

// Time normalizes a free-form time of day to a zero-padded 24-hour "HH:MM".
//
// A value carrying H:MM is first parsed together with contextDate as a full
// date-time; numeric offsets are converted to UTC and the only zone names
// accepted are UTC and GMT. Otherwise, or if that fails, the value is matched
// against H:MM[:SS][ AM|PM] or H AM|PM and validated again on contextDate.
// An empty contextDate means 1970-01-01.
func Time(raw, contextDate string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidTime)
	}
	if contextDate == "" {
		contextDate = epochDate
	}

	if clockComponent.MatchString(raw) {
		if zone := zoneName.FindString(raw); zone != "" {
			switch strings.ToUpper(zone) {
			case "UTC", "GMT":
			default:
				return "", fmt.Errorf("%w: %q: unsupported zone %s", ErrInvalidTime, raw, zone)
			}
		}
		if t, err := parseAny(contextDate + " " + raw); err == nil {
			return t.UTC().Format("15:04"), nil
		}
	}

	if t, ok := parseClock(raw, contextDate); ok {
		return t.UTC().Format("15:04"), nil
	}

	return "", fmt.Errorf("%w: %q: expected a parseable time", ErrInvalidTime, raw)
}

func parseClock(raw, contextDate string) (time.Time, bool) {
	var hour, minute, second int
	var meridiem string

	if m := clockPattern.FindStringSubmatch(raw); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		meridiem = m[4]
	} else if m := hourPattern.FindStringSubmatch(raw); m != nil {
		hour, _ = strconv.Atoi(m[1])
		meridiem = m[2]
	} else {
		return time.Time{}, false
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		pm := strings.EqualFold(meridiem, "PM")
		switch {
		case hour == 12 && !pm:
			hour = 0
		case hour != 12 && pm:
			hour += 12
		}
	}

	stamp := fmt.Sprintf("%sT%02d:%02d:%02d", contextDate, hour, minute, second)
	t, err := time.ParseInLocation("2006-01-02T15:04:05", stamp, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
