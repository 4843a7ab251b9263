// Package epoch converts raw Unix timestamps into local calendar date/times
// and renders them in the fixed "YYYY-MM-DD HH:MM:SS" layout.
package epoch

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the rendering layout: zero padded, 24-hour clock, 19 characters.
const Layout = "2006-01-02 15:04:05"

// Calendar bounds representable by a four-digit year field.
const (
	MinYear = 1
	MaxYear = 9999
)

// Unix seconds of 0001-01-01T00:00:00Z and 9999-12-31T23:59:59Z.
const (
	minUnixSeconds = -62135596800
	maxUnixSeconds = 253402300799

	// Zone offsets never exceed a day; values past this margin are rejected
	// before any time arithmetic runs.
	zoneMarginSeconds = 24 * 60 * 60
)

// DefaultTimestamp is the literal converted when nothing else is configured.
const DefaultTimestamp Timestamp = 1751587200000

// Unit selects how a Timestamp is interpreted.
type Unit string

const (
	Milliseconds Unit = "ms"
	Seconds      Unit = "s"
)

// ParseUnit accepts "ms"/"millis"/"milliseconds" and "s"/"sec"/"seconds".
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ms", "millis", "milliseconds":
		return Milliseconds, nil
	case "s", "sec", "seconds":
		return Seconds, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Timestamp is a raw count since 1970-01-01T00:00:00Z. Its unit is supplied
// at conversion time.
type Timestamp int64

// UnixSeconds returns the whole seconds since the epoch for ts in unit.
// Millisecond values are floored, so -1ms is the last second of 1969.
func (ts Timestamp) UnixSeconds(unit Unit) (int64, error) {
	switch unit {
	case Milliseconds:
		return time.UnixMilli(int64(ts)).Unix(), nil
	case Seconds:
		return int64(ts), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, string(unit))
	}
}

// CalendarDateTime holds the calendar fields of an instant in a location.
type CalendarDateTime struct {
	Year     int
	Month    time.Month
	Day      int
	Hour     int
	Minute   int
	Second   int
	Location *time.Location
}

// Convert interprets ts in unit and returns its calendar fields in loc.
// A nil loc means time.Local. Instants whose local year falls outside
// [MinYear, MaxYear] yield a *ConversionRangeError.
func Convert(ts Timestamp, unit Unit, loc *time.Location) (CalendarDateTime, error) {
	if loc == nil {
		loc = time.Local
	}

	sec, err := ts.UnixSeconds(unit)
	if err != nil {
		return CalendarDateTime{}, err
	}
	if sec < minUnixSeconds-zoneMarginSeconds || sec > maxUnixSeconds+zoneMarginSeconds {
		return CalendarDateTime{}, &ConversionRangeError{Value: int64(ts), Unit: unit}
	}

	t := time.Unix(sec, 0).In(loc)
	if t.Year() < MinYear || t.Year() > MaxYear {
		return CalendarDateTime{}, &ConversionRangeError{Value: int64(ts), Unit: unit}
	}
	return fromTime(t), nil
}

// Parse reads a Layout-formatted string as a wall clock in loc.
// A nil loc means time.Local.
func Parse(s string, loc *time.Location) (CalendarDateTime, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(s) != len(Layout) {
		return CalendarDateTime{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return CalendarDateTime{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return fromTime(t), nil
}

func fromTime(t time.Time) CalendarDateTime {
	return CalendarDateTime{
		Year:     t.Year(),
		Month:    t.Month(),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Location: t.Location(),
	}
}

// Time rebuilds the instant described by the fields.
func (c CalendarDateTime) Time() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

// Unix returns the seconds since the epoch of the fields in their location.
func (c CalendarDateTime) Unix() int64 {
	return c.Time().Unix()
}

// Format renders the fields as "YYYY-MM-DD HH:MM:SS".
func (c CalendarDateTime) Format() string {
	return c.Time().Format(Layout)
}

func (c CalendarDateTime) String() string {
	return c.Format()
}
