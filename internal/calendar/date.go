package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a civil calendar date with no time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

const dateKeyLayout = "2006-01-02"

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ToDateKey formats d as YYYY-MM-DD from its calendar fields.
func ToDateKey(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseDateKey parses a YYYY-MM-DD key. Out-of-range fields are rejected rather than normalized.
func ParseDateKey(key string) (Date, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return ToDateKey(d)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// civil anchors d at midnight UTC so that calendar arithmetic never crosses a DST edge.
func (d Date) civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.civil().Weekday()
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.civil().AddDate(0, 0, n))
}

// StartOfWeek returns the Monday on or before d. Sunday belongs to the week that began six days earlier.
func StartOfWeek(d Date) Date {
	wd := int(d.Weekday())
	if wd == 0 {
		return d.AddDays(-6)
	}
	return d.AddDays(1 - wd)
}

// WeekDays returns the Monday-first week containing d.
func WeekDays(d Date) [7]Date {
	start := StartOfWeek(d)
	var days [7]Date
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// ToMinutes converts t to minutes since midnight.
func ToMinutes(t TimeOfDay) int {
	return t.Hour*60 + t.Minute
}

// FromMinutes is the inverse of ToMinutes. Values past 24h are kept as-is (25:00 stays 25:00).
func FromMinutes(m int) TimeOfDay {
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS[.fraction] and keeps only the HH:MM component.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) < 5 || s[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	if len(s) > 5 && s[5] != ':' {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}

	hour, err := strconv.Atoi(s[0:2])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(s[3:5])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}
