// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is the length of one wall-clock day.
const Day = 24 * time.Hour

// ErrInvalidTimeOfDay is returned when a time-of-day string cannot be parsed.
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock instant within a day, stored as the offset from
// midnight. Valid values lie in [0, 24h).
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// TimeOfDayOf returns the wall-clock time of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()) + TimeOfDay(t.Nanosecond())
}

// ParseTimeOfDay parses "HH:MM", "HH:MM:SS" or "HH:MM:SS.fffffffff".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	hour, err := parseClockField(parts[0], 23)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := parseClockField(parts[1], 59)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	var second int
	var nanos time.Duration
	if len(parts) == 3 {
		secPart, fracPart, hasFrac := strings.Cut(parts[2], ".")
		second, err = parseClockField(secPart, 59)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		if hasFrac {
			nanos, err = parseFraction(fracPart)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
			}
		}
	}

	return NewTimeOfDay(hour, minute, second) + TimeOfDay(nanos), nil
}

// MustParseTimeOfDay is like ParseTimeOfDay but panics on error.
// Intended for constants and tests.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseClockField(s string, maxValue int) (int, error) {
	if len(s) != 2 {
		return 0, ErrInvalidTimeOfDay
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > maxValue {
		return 0, ErrInvalidTimeOfDay
	}
	return v, nil
}

func parseFraction(s string) (time.Duration, error) {
	if s == "" || len(s) > 9 {
		return 0, ErrInvalidTimeOfDay
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, ErrInvalidTimeOfDay
	}
	for i := len(s); i < 9; i++ {
		v *= 10
	}
	return time.Duration(v), nil
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int {
	return int(time.Duration(t) / time.Hour)
}

// String formats the value as "HH:MM:SS", adding fractional seconds only
// when present.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second

	out := fmt.Sprintf("%02d:%02d:%02d", int64(h), int64(m), int64(s))
	if d > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", int64(d)), "0")
		out += "." + frac
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// HourlyOptions returns the on-the-hour choices offered for a time range
// selection, "00:00:00" through "23:00:00".
func HourlyOptions() []TimeOfDay {
	opts := make([]TimeOfDay, 24)
	for h := range opts {
		opts[h] = NewTimeOfDay(h, 0, 0)
	}
	return opts
}
