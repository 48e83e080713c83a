package deadline

import (
	"strings"
	"time"
)

// ParseKind classifies the outcome of parsing a stored due date.
type ParseKind int

const (
	// Absent means no due date was stored.
	Absent ParseKind = iota
	// Instant means the value parsed to a point in time.
	Instant
	// Malformed means a value was stored but could not be parsed.
	Malformed
)

// String returns the name of the parse kind.
func (k ParseKind) String() string {
	switch k {
	case Instant:
		return "instant"
	case Malformed:
		return "malformed"
	default:
		return "absent"
	}
}

// ParseResult is the outcome of Parse. Time is only meaningful when Kind is
// Instant and is always in UTC.
type ParseResult struct {
	Kind ParseKind
	Time time.Time
}

// offsetLayouts carry an explicit zone; naiveLayouts are read as UTC.
var (
	offsetLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// Parse reads a stored due date. Empty and whitespace-only values are Absent;
// anything that is not an ISO-8601 style date or date-time is Malformed.
// Values without an offset are interpreted as UTC, never local time.
func Parse(raw string) ParseResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParseResult{Kind: Absent}
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ParseResult{Kind: Instant, Time: t.UTC()}
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ParseResult{Kind: Instant, Time: t}
		}
	}

	return ParseResult{Kind: Malformed}
}

// wholeDays returns floor((due-now)/24h).
func wholeDays(due, now time.Time) int {
	d := due.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) < 0 {
		days--
	}
	return days
}
