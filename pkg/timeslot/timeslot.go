// Package timeslot turns weekly availability windows into a fixed grid of
// "HH:MM" slot labels.
package timeslot

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultDuration is the slot size used when none is configured.
const DefaultDuration = 30 * time.Minute

// DateLayout is the ISO calendar date format accepted on the wire.
const DateLayout = "2006-01-02"

var (
	ErrInvalidClock    = errors.New("invalid time of day, use HH:MM")
	ErrInvalidDate     = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidDuration = errors.New("slot duration must be positive")
)

// weekdayNames is indexed by time.Weekday and never depends on host locale.
var weekdayNames = [7]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// Weekdays lists the canonical day keys starting on Monday.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayOf returns the lowercase English weekday key for a calendar date.
func WeekdayOf(date time.Time) string {
	return weekdayNames[date.Weekday()]
}

// IsWeekday reports whether s is one of the canonical day keys.
func IsWeekday(s string) bool {
	for _, d := range weekdayNames {
		if d == s {
			return true
		}
	}
	return false
}

// ParseDate parses a strict YYYY-MM-DD date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock accepts "HH:MM" and the "HH:MM:SS" form Postgres returns for
// time columns. Seconds must be zero.
func ParseClock(s string) (Clock, error) {
	var t time.Time
	var err error
	switch len(s) {
	case 5:
		t, err = time.Parse("15:04", s)
	case 8:
		t, err = time.Parse("15:04:05", s)
		if err == nil && t.Second() != 0 {
			return 0, ErrInvalidClock
		}
	default:
		return 0, ErrInvalidClock
	}
	if err != nil {
		return 0, ErrInvalidClock
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// String formats the clock as zero-padded 24h "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Normalize rewrites a stored clock value into the canonical "HH:MM" label.
func Normalize(s string) (string, error) {
	c, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// IsSlotLabel reports whether s is exactly a zero-padded 24h "HH:MM" label.
func IsSlotLabel(s string) bool {
	if len(s) != 5 {
		return false
	}
	c, err := ParseClock(s)
	return err == nil && c.String() == s
}

// Window is a single start/end range within one day.
type Window struct {
	Start string
	End   string
}

// Generate expands one window into slot labels. A slot is emitted only if it
// fits entirely before end, so the last label always starts before end.
func Generate(start, end string, duration time.Duration) ([]string, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	from, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return nil, err
	}

	step := Clock(duration / time.Minute)
	if step == 0 {
		return nil, ErrInvalidDuration
	}

	var slots []string
	for c := from; c+step <= to; c += step {
		slots = append(slots, c.String())
	}
	return slots, nil
}

// Merge generates the grid for every window and returns the union sorted
// ascending with duplicates removed.
func Merge(windows []Window, duration time.Duration) ([]string, error) {
	seen := make(map[string]struct{})
	var merged []string
	for _, w := range windows {
		slots, err := Generate(w.Start, w.End, duration)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}
	// "HH:MM" labels sort lexically in time order.
	sort.Strings(merged)
	return merged, nil
}

// Contains reports whether slot is part of grid.
func Contains(grid []string, slot string) bool {
	for _, s := range grid {
		if s == slot {
			return true
		}
	}
	return false
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return aStart < bEnd && bStart < aEnd
}
