package lowtide

import (
	"fmt"
	"time"

	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/sunset"
)

// DefaultThreshold is the qualifying height when a request names none:
// 0.0 ft MLLW, i.e. only minus tides and lower qualify.
const DefaultThreshold = 0.0

// DayFilter restricts which calendar days may hold qualifying tides.
type DayFilter int

const (
	DayAny DayFilter = iota
	DayWeekday
	DayWeekend
)

// HoursFilter restricts which part of the day a qualifying tide may occupy.
type HoursFilter int

const (
	// HoursDay is [sunrise, sunset), the default.
	HoursDay HoursFilter = iota
	// HoursDayPlus widens daylight by an hour on both ends.
	HoursDayPlus
	// HoursNight is the complement of HoursDay.
	HoursNight
)

// Options tunes what counts as a qualifying tide. The zero value is the
// documented default: low tides at or below DefaultThreshold during
// daylight, any day of the week.
type Options struct {
	// Threshold in feet MLLW. Low tides qualify at or below it; with High
	// set, high tides qualify at or above it.
	Threshold float64
	// High searches high tides instead of low.
	High bool
	Days  DayFilter
	Hours HoursFilter
}

// QualifyingTide is a tide event that passed every filter for its day.
type QualifyingTide struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"`
	Kind   string    `json:"kind"` // "H" or "L"
}

func (q QualifyingTide) String() string {
	name := "low"
	if q.Kind == noaa.HighTide.String() {
		name = "high"
	}
	return fmt.Sprintf("%s tide of %.1f ft at %s", name, q.Height, q.Time.Format("3:04 PM"))
}

// DayEntry is the per-calendar-day result: every feed event on that day,
// the qualifying subset, and the day's daylight. An entry with no events is
// a day the feed had no data for, which is distinct from a day whose tides
// simply did not qualify.
type DayEntry struct {
	// Date is midnight station-local.
	Date time.Time `json:"date"`
	// Daylight for the date; nil when DaylightUnknown.
	Daylight *sunset.Daylight `json:"daylight,omitempty"`
	// DaylightUnknown marks a day whose daylight could not be computed.
	// Its tides are never classified; they are reported unqualified rather
	// than silently excluded or wrongly included.
	DaylightUnknown bool `json:"daylight_unknown,omitempty"`
	// Events is every prediction on this date, in time order.
	Events noaa.Predictions `json:"events"`
	// Tides is the qualifying subset, strictly ascending, no duplicates.
	Tides []QualifyingTide `json:"tides"`
}

// HasData reports whether the feed had any events for this day.
func (e DayEntry) HasData() bool {
	return len(e.Events) > 0
}
