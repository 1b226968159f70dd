// Package lowtide computes daylight tide windows: for each calendar day in
// a range, which predicted tides are shallow enough and happen while the
// sun is up. It is a pure computation over already-fetched predictions and
// daylight intervals; the Service type in this package adds the fetching
// and caching around it.
package lowtide

import (
	"sort"
	"time"

	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/sunset"
	"github.com/pshannon/minustide/pkg/timetricks"
)

// ComputeWindows classifies preds against daylight and emits one DayEntry
// per calendar day of the inclusive range [start, end], in calendar order.
// Days are cut at the station-local midnight of each event's timestamp;
// daylight is keyed by timetricks.UniqueDay. Feed order is not trusted:
// events are re-sorted and duplicate timestamps collapsed before
// classification. A day missing from daylight is emitted DaylightUnknown
// with no qualifying tides.
func ComputeWindows(preds noaa.Predictions, daylight map[string]sunset.Daylight, start, end time.Time, opts Options) []DayEntry {
	sorted := make(noaa.Predictions, len(preds))
	copy(sorted, preds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	byDay := make(map[string]noaa.Predictions)
	for _, p := range sorted {
		key := timetricks.UniqueDay(p.Time)
		day := byDay[key]
		if n := len(day); n > 0 && day[n-1].Time.Equal(p.Time) {
			// Duplicate timestamp from a sloppy feed; keep the first.
			continue
		}
		byDay[key] = append(day, p)
	}

	var entries []DayEntry
	last := timetricks.Midnight(end)
	for day := timetricks.Midnight(start); !day.After(last); day = timetricks.NextDay(day) {
		key := timetricks.UniqueDay(day)
		entry := DayEntry{
			Date:   day,
			Events: byDay[key],
		}

		dl, ok := daylight[key]
		if !ok {
			entry.DaylightUnknown = true
			entries = append(entries, entry)
			continue
		}
		d := dl
		entry.Daylight = &d

		if passesDayFilter(day, opts.Days) {
			for _, p := range entry.Events {
				if qualifies(p, dl, opts) {
					entry.Tides = append(entry.Tides, QualifyingTide{
						Time:   p.Time,
						Height: float64(p.Height),
						Kind:   p.Type.String(),
					})
				}
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

func qualifies(p noaa.Prediction, dl sunset.Daylight, opts Options) bool {
	if opts.High {
		if p.Type != noaa.HighTide || float64(p.Height) < opts.Threshold {
			return false
		}
	} else {
		if p.Type != noaa.LowTide || float64(p.Height) > opts.Threshold {
			return false
		}
	}
	return passesHoursFilter(p.Time, dl, opts.Hours)
}

func passesDayFilter(day time.Time, f DayFilter) bool {
	switch f {
	case DayWeekday:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case DayWeekend:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return true
	}
}

func passesHoursFilter(t time.Time, dl sunset.Daylight, f HoursFilter) bool {
	switch f {
	case HoursDayPlus:
		// Same half-open discipline as Contains, shifted an hour out.
		return !t.Before(dl.Sunrise.Add(-time.Hour)) && t.Before(dl.Sunset.Add(time.Hour))
	case HoursNight:
		return !dl.Contains(t)
	default:
		return dl.Contains(t)
	}
}
