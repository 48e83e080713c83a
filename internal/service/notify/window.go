package notify

import (
	"fmt"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain/deadline"
)

// WindowLayout renders window bounds as offset-aware ISO-8601 with
// microsecond precision.
const WindowLayout = "2006-01-02T15:04:05.999999-07:00"

// Window is a closed range of due dates, expressed as the strings a store
// range query compares against.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewWindow formats an instant range in UTC.
func NewWindow(start, end time.Time) Window {
	return Window{
		Start: start.UTC().Format(WindowLayout),
		End:   end.UTC().Format(WindowLayout),
	}
}

// LookaheadWindow is the default sweep window: it opens offset from now and
// stays open for length.
func LookaheadWindow(now time.Time, offset, length time.Duration) Window {
	start := now.Add(offset)
	return NewWindow(start, start.Add(length))
}

// TodayWindow covers the UTC calendar day containing now, up to the last
// microsecond.
func TodayWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return NewWindow(start, start.AddDate(0, 0, 1).Add(-time.Microsecond))
}

// Instants parses both bounds. It fails when either bound is not a date.
func (w Window) Instants() (time.Time, time.Time, error) {
	start := deadline.Parse(w.Start)
	end := deadline.Parse(w.End)
	if start.Kind != deadline.Instant || end.Kind != deadline.Instant {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q..%q", ErrInvalidWindow, w.Start, w.End)
	}
	return start.Time, end.Time, nil
}

// Validate checks that both bounds are present and, when both parse as
// dates, that start is not after end. Bounds that are not dates are passed
// through to the store unchanged.
func (w Window) Validate() error {
	if w.Start == "" || w.End == "" {
		return fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	start, end, err := w.Instants()
	if err != nil {
		return nil
	}
	if start.After(end) {
		return fmt.Errorf("%w: start %q is after end %q", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}
