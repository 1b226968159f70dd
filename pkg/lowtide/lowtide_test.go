package lowtide

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/sunset"
	"github.com/pshannon/minustide/pkg/timetricks"
)

var day = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) // a Saturday

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

// feedDay is the canonical single-day feed used throughout: a deep morning
// low before sunrise, a midday high, and a positive evening low.
func feedDay() noaa.Predictions {
	return noaa.Predictions{
		{Time: at(5, 0), Height: -0.5, Type: noaa.LowTide},
		{Time: at(11, 0), Height: 9.0, Type: noaa.HighTide},
		{Time: at(17, 30), Height: 1.2, Type: noaa.LowTide},
	}
}

func daylight(rise, set time.Time) map[string]sunset.Daylight {
	d := sunset.Daylight{Date: timetricks.Midnight(rise), Sunrise: rise, Sunset: set}
	return map[string]sunset.Daylight{timetricks.UniqueDay(rise): d}
}

func qualifyingTimes(e DayEntry) []time.Time {
	var out []time.Time
	for _, q := range e.Tides {
		out = append(out, q.Time)
	}
	return out
}

func TestComputeWindowsScenarios(t *testing.T) {
	table := []struct {
		name     string
		daylight map[string]sunset.Daylight
		opts     Options
		want     []time.Time
	}{{
		// The 05:00 low is before sunrise and the 17:30 low is above the
		// default threshold, so nothing qualifies.
		name:     "default threshold, late sunrise",
		daylight: daylight(at(5, 15), at(20, 45)),
		opts:     Options{Threshold: DefaultThreshold},
		want:     nil,
	}, {
		name:     "relaxed threshold, early sunrise",
		daylight: daylight(at(4, 30), at(20, 45)),
		opts:     Options{Threshold: 1.5},
		want:     []time.Time{at(5, 0)},
	}, {
		name:     "both lows during daylight",
		daylight: daylight(at(4, 30), at(20, 45)),
		opts:     Options{Threshold: 1.2},
		want:     []time.Time{at(5, 0), at(17, 30)},
	}, {
		name:     "high tide search",
		daylight: daylight(at(4, 30), at(20, 45)),
		opts:     Options{Threshold: 8.0, High: true},
		want:     []time.Time{at(11, 0)},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			entries := ComputeWindows(feedDay(), tc.daylight, day, day, tc.opts)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			e := entries[0]
			if e.DaylightUnknown {
				t.Errorf("DaylightUnknown set with daylight present")
			}
			if len(e.Events) != 3 {
				t.Errorf("entry has %d events, want all 3", len(e.Events))
			}
			if diff := cmp.Diff(tc.want, qualifyingTimes(e)); diff != "" {
				t.Errorf("qualifying times (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestComputeWindowsBoundaries(t *testing.T) {
	// One low exactly at sunrise, one exactly at sunset. The interval is
	// half-open: sunrise included, sunset excluded.
	rise, set := at(5, 0), at(17, 30)
	preds := noaa.Predictions{
		{Time: rise, Height: -0.5, Type: noaa.LowTide},
		{Time: at(11, 0), Height: 9.0, Type: noaa.HighTide},
		{Time: set, Height: -0.3, Type: noaa.LowTide},
	}

	entries := ComputeWindows(preds, daylight(rise, set), day, day, Options{})
	got := qualifyingTimes(entries[0])
	want := []time.Time{rise}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundary handling (-want,+got):\n%s", diff)
	}
}

func TestComputeWindowsEmptyDayVsUnknownDaylight(t *testing.T) {
	// Day with no feed events but valid daylight: an empty qualifying list
	// and no data, clearly distinguishable from daylight failure.
	entries := ComputeWindows(nil, daylight(at(5, 0), at(20, 0)), day, day, Options{})
	e := entries[0]
	if e.DaylightUnknown {
		t.Errorf("valid daylight marked unknown")
	}
	if e.HasData() {
		t.Errorf("day with no events reports data")
	}
	if len(e.Tides) != 0 {
		t.Errorf("day with no events has qualifying tides")
	}

	// Day with events but no daylight interval: marked unknown, tides kept
	// as events but never classified as qualifying.
	entries = ComputeWindows(feedDay(), nil, day, day, Options{Threshold: 5})
	e = entries[0]
	if !e.DaylightUnknown {
		t.Errorf("missing daylight not marked unknown")
	}
	if e.Daylight != nil {
		t.Errorf("unknown daylight entry carries an interval")
	}
	if !e.HasData() {
		t.Errorf("events dropped from daylight-unknown day")
	}
	if len(e.Tides) != 0 {
		t.Errorf("tides classified without daylight data: %v", e.Tides)
	}
}

func TestComputeWindowsResortsAndDedupes(t *testing.T) {
	// Feed order reversed and one event duplicated; the engine must not
	// trust feed order.
	preds := noaa.Predictions{
		{Time: at(17, 30), Height: 1.2, Type: noaa.LowTide},
		{Time: at(5, 0), Height: -0.5, Type: noaa.LowTide},
		{Time: at(11, 0), Height: 9.0, Type: noaa.HighTide},
		{Time: at(5, 0), Height: -0.5, Type: noaa.LowTide},
	}

	entries := ComputeWindows(preds, daylight(at(4, 30), at(20, 45)), day, day, Options{Threshold: 1.5})
	e := entries[0]

	if len(e.Events) != 3 {
		t.Errorf("duplicate event not collapsed: %d events", len(e.Events))
	}
	for i := 1; i < len(e.Tides); i++ {
		if !e.Tides[i-1].Time.Before(e.Tides[i].Time) {
			t.Errorf("qualifying tides not strictly ascending: %v", e.Tides)
		}
	}
	want := []time.Time{at(5, 0), at(17, 30)}
	if diff := cmp.Diff(want, qualifyingTimes(e)); diff != "" {
		t.Errorf("qualifying times (-want,+got):\n%s", diff)
	}
}

func TestComputeWindowsDegenerateDaylight(t *testing.T) {
	noon := at(12, 0)

	// Polar night: empty interval, nothing can qualify.
	entries := ComputeWindows(feedDay(), daylight(noon, noon), day, day, Options{Threshold: 5})
	if got := entries[0].Tides; len(got) != 0 {
		t.Errorf("polar night qualified tides: %v", got)
	}

	// Polar day: full-day interval, the daylight check passes everything.
	entries = ComputeWindows(feedDay(), daylight(day, timetricks.NextDay(day)), day, day, Options{Threshold: 1.5})
	want := []time.Time{at(5, 0), at(17, 30)}
	if diff := cmp.Diff(want, qualifyingTimes(entries[0])); diff != "" {
		t.Errorf("polar day qualifying times (-want,+got):\n%s", diff)
	}
}

func TestComputeWindowsFilters(t *testing.T) {
	dl := daylight(at(4, 30), at(20, 45))

	table := []struct {
		name string
		opts Options
		want []time.Time
	}{{
		// 2024-06-01 is a Saturday.
		name: "weekday filter excludes saturday",
		opts: Options{Threshold: 1.5, Days: DayWeekday},
		want: nil,
	}, {
		name: "weekend filter keeps saturday",
		opts: Options{Threshold: 1.5, Days: DayWeekend},
		want: []time.Time{at(5, 0)},
	}, {
		name: "night filter inverts daylight",
		opts: Options{Threshold: 1.5, Hours: HoursNight},
		want: nil, // both lows are inside daylight here
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			entries := ComputeWindows(feedDay(), dl, day, day, tc.opts)
			if diff := cmp.Diff(tc.want, qualifyingTimes(entries[0])); diff != "" {
				t.Errorf("qualifying times (-want,+got):\n%s", diff)
			}
		})
	}

	// The widened filter admits a low up to an hour before sunrise.
	narrow := daylight(at(5, 15), at(20, 45))
	entries := ComputeWindows(feedDay(), narrow, day, day, Options{Hours: HoursDayPlus})
	want := []time.Time{at(5, 0)}
	if diff := cmp.Diff(want, qualifyingTimes(entries[0])); diff != "" {
		t.Errorf("day-plus qualifying times (-want,+got):\n%s", diff)
	}

	// Night filter catches the pre-dawn low under a late sunrise.
	entries = ComputeWindows(feedDay(), narrow, day, day, Options{Threshold: 1.5, Hours: HoursNight})
	if diff := cmp.Diff(want, qualifyingTimes(entries[0])); diff != "" {
		t.Errorf("night qualifying times (-want,+got):\n%s", diff)
	}
}

func TestComputeWindowsMultiDay(t *testing.T) {
	end := day.AddDate(0, 0, 4)

	// Daylight for every day, events only on the first.
	dl := make(map[string]sunset.Daylight)
	for d := day; !d.After(end); d = timetricks.NextDay(d) {
		dl[timetricks.UniqueDay(d)] = sunset.Daylight{
			Date:    d,
			Sunrise: d.Add(5 * time.Hour),
			Sunset:  d.Add(20 * time.Hour),
		}
	}

	entries := ComputeWindows(feedDay(), dl, day, end, Options{Threshold: 1.5})
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	for i, e := range entries {
		want := day.AddDate(0, 0, i)
		if !e.Date.Equal(want) {
			t.Errorf("entry %d date = %v, want %v", i, e.Date, want)
		}
		if i > 0 && e.HasData() {
			t.Errorf("entry %d has events that belong to day 0", i)
		}
	}
}
