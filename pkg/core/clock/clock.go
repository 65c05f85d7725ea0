package clock

import (
	"fmt"
	"strings"
	"time"
)

// Layouts tried in order when parsing a clock time. The first successful parse wins.
var timeLayouts = []string{
	"3:04:05 PM",
	"3:04 PM",
	"3 PM",
	"15:04:05", // also accepts a trailing fractional second
	"15:04",
}

// Combined date-time layouts used as a last resort
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Calendar date layouts accepted by ParseDate
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// TimeOfDay is a normalised clock time. The zero value is the unparsable marker.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Valid      bool
}

// Unparsable is returned when no layout matches
var Unparsable = TimeOfDay{}

// Parse converts clock text into a TimeOfDay. It never fails: blank or
// unrecognised input yields Unparsable.
func Parse(raw string) TimeOfDay {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return Unparsable
	}

	// Meridiem markers are only matched in upper case
	upper := strings.ToUpper(text)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return fromTime(t)
		}
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return fromTime(t)
		}
	}

	return Unparsable
}

func fromTime(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
		Valid:      true,
	}
}

// String returns the canonical form HH:MM:SS, with a fractional part only when
// non-zero. Unparsable times render as an empty string.
func (t TimeOfDay) String() string {
	if !t.Valid {
		return ""
	}
	if t.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
	return fmt.Sprintf("%02d:%02d:%02d.%s", t.Hour, t.Minute, t.Second, frac)
}

// Duration returns the offset of t from midnight
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

// Before orders times of day. Unparsable sorts after every valid time and
// is never before another unparsable time.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	switch {
	case !t.Valid:
		return false
	case !other.Valid:
		return true
	default:
		return t.Duration() < other.Duration()
	}
}

// ParseDate parses a calendar date leniently. ok is false when no layout matches.
func ParseDate(raw string) (date time.Time, ok bool) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}
