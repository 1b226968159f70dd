// Package timetricks holds small calendar-time helpers shared by the tide
// packages. All helpers respect the location attached to their arguments;
// the station's local day boundary is authoritative, never the server's.
package timetricks

import (
	"time"
)

const dayFormat = "20060102"

// SameDay reports whether t and t2 fall on the same calendar day in their
// respective locations.
func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// Midnight returns the start of t's calendar day in t's location. Unlike
// subtracting the wall clock, this is correct on DST transition days.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDay returns the start of the calendar day after t's, in t's location.
func NextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two separate times on the same calendar day return identical
// strings.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}

// Day returns a short human label for t's calendar day: "Today", "Tomorrow",
// the weekday name within the coming week, or a month/day date otherwise.
// now provides the reference day, usually time.Now in the same location.
func Day(t time.Time, now time.Time) string {
	switch {
	case SameDay(t, now):
		return "Today"
	case SameDay(t, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	case t.After(now) && t.Before(Midnight(now).AddDate(0, 0, 7)):
		return t.Weekday().String()
	default:
		return t.Format("01/02")
	}
}
