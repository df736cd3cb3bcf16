// Package event provides the Event model and its boundary validation.
package event

import (
	"fmt"
	"strings"
	"time"

	"agenda/errors"
)

// TimeLayout is the canonical minute-precision timestamp layout used on the
// command line and in persisted data.
const TimeLayout = "2006-01-02 15:04"

// DayLayout is the bare-date layout. A bare date is read as midnight.
const DayLayout = "2006-01-02"

// Event is a named, categorized time interval. The covered interval is
// [Start, Start+Duration), ends exclusive.
type Event struct {
	// Name is the free-text event name. Not required to be unique.
	Name string
	// Category is the lower-cased grouping label used for filtering and
	// aggregation.
	Category string
	// Start is the minute-precision start timestamp. It acts as the unique
	// key within a schedule.
	Start time.Time
	// Duration is the event length in minutes. Always positive for valid
	// events.
	Duration int
}

// End returns the exclusive end of the event's interval.
func (e Event) End() time.Time {
	return e.Start.Add(time.Duration(e.Duration) * time.Minute)
}

// Overlaps reports whether the intervals of e and other intersect. Touching
// intervals do not overlap as ends are exclusive.
func (e Event) Overlaps(other Event) bool {
	return e.Start.Before(other.End()) && other.Start.Before(e.End())
}

// Day returns midnight of the calendar day the event starts on.
func (e Event) Day() time.Time {
	return StartOfDay(e.Start)
}

// New builds a validated Event from raw command input. The category is
// normalized to lower case like on every other input path.
func New(name string, category string, start string, duration int) (Event, error) {
	startTS, err := ParseTime(start)
	if err != nil {
		return Event{}, errors.Wrap(err, "parse start", nil)
	}
	e := Event{
		Name:     strings.TrimSpace(name),
		Category: NormalizeCategory(category),
		Start:    startTS,
		Duration: duration,
	}
	if err := Validate(e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks the invariants every stored Event must satisfy.
func Validate(e Event) error {
	if e.Name == "" {
		return errors.NewInvalidInputError("event name must not be empty", nil)
	}
	if e.Category == "" {
		return errors.NewInvalidInputError("event category must not be empty", nil)
	}
	if e.Start.IsZero() {
		return errors.NewInvalidInputError("event start must be set", nil)
	}
	if e.Duration <= 0 {
		return errors.NewInvalidInputError("event duration must be positive", errors.Details{
			"duration": e.Duration,
		})
	}
	return nil
}

// ParseTime parses a timestamp in TimeLayout. A bare date in DayLayout is
// accepted as well and read as midnight.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(TimeLayout, raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DayLayout, raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, errors.NewInvalidInputError(
		fmt.Sprintf("invalid timestamp %q, expected %q or %q", raw, TimeLayout, DayLayout),
		errors.Details{"raw": raw})
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Key truncates t to the minute precision used for addressing events.
func Key(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// StartOfDay returns midnight of the calendar day of t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NormalizeCategory lower-cases and trims a raw category label.
func NormalizeCategory(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// DisplayCategory capitalizes a normalized category for rendering.
func DisplayCategory(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
