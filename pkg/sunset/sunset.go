// Package sunset computes local daylight intervals from station coordinates.
// It is a pure wrapper over an astronomical routine: deterministic, no
// network, no clock reads.
package sunset

import (
	"errors"
	"fmt"
	"time"

	"github.com/pshannon/minustide/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// Years outside this span are rejected rather than extrapolated; the
// underlying algorithm degrades far from the present epoch.
const (
	minYear = 1900
	maxYear = 2100
)

// ErrInvalidDate reports a date outside the range the ephemeris supports.
var ErrInvalidDate = errors.New("date outside supported ephemeris range")

// ValidDate reports whether the ephemeris supports t's year. Callers can
// reject requests up front instead of waiting for For to fail.
func ValidDate(t time.Time) bool {
	y := t.Year()
	return y >= minYear && y <= maxYear
}

// For computes the daylight interval at place on date's calendar day.
// Polar edge cases never fail: a day where the sun stays down yields an
// empty interval anchored at local noon, and a day where it stays up yields
// a full-day interval.
func For(place Place, date time.Time) (Daylight, error) {
	if y := date.Year(); y < minYear || y > maxYear {
		return Daylight{}, fmt.Errorf("%w: year %d", ErrInvalidDate, y)
	}

	day := timetricks.Midnight(date.In(place.Location))

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, day)

	// The sunrise package is loose with its dates; walk until the reported
	// sunrise lands on the requested day. A bounded walk that never lands
	// means the sun does not rise that day at all.
	aligned := false
	for i := 0; i < 3; i++ {
		if timetricks.SameDay(day, s.Sunrise().In(place.Location)) {
			aligned = true
			break
		}
		s.AddDays(1)
	}
	if !aligned {
		noon := day.Add(12 * time.Hour)
		return Daylight{Date: day, Sunrise: noon, Sunset: noon}, nil
	}

	rise := s.Sunrise().In(place.Location)
	set := s.Sunset().In(place.Location)
	if !set.After(rise) {
		// Sun up past midnight: treat as daylight until end of day.
		set = timetricks.NextDay(day)
	}

	return Daylight{Date: day, Sunrise: rise, Sunset: set}, nil
}

// Range computes daylight for consecutive calendar days starting at start,
// keyed by timetricks.UniqueDay. Days the ephemeris cannot answer for are
// omitted; callers treat missing dates as daylight-unknown.
func Range(place Place, start time.Time, days int) map[string]Daylight {
	out := make(map[string]Daylight, days)
	day := timetricks.Midnight(start.In(place.Location))
	for i := 0; i < days; i++ {
		if d, err := For(place, day); err == nil {
			out[timetricks.UniqueDay(day)] = d
		}
		day = timetricks.NextDay(day)
	}
	return out
}
