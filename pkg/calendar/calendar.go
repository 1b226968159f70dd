// Package calendar reshapes day entries into a month/week grid for
// presentation. No tide logic lives here; the only failures are invariant
// violations in the input, which indicate a bug in the caller.
package calendar

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/timetricks"
)

// Day is one cell of the grid. Cells padding the first and last week have
// no entry and are not InMonth.
type Day struct {
	Entry   *lowtide.DayEntry
	InMonth bool
	// Label is the day-of-month number for in-month cells.
	Label string
}

// Week is a row of seven cells, Sunday first.
type Week []Day

// Month is a renderable month of day entries.
type Month struct {
	Year  int
	Month time.Month
	Label string
	Weeks []Week
}

// Assemble groups ordered day entries into months of Sunday-first weeks.
// Entries must be strictly ascending by date with no gaps or duplicates;
// anything else is a programming error and returns a non-nil error.
func Assemble(entries []lowtide.DayEntry) ([]Month, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Date, entries[i].Date
		if !timetricks.NextDay(prev).Equal(cur) {
			return nil, fmt.Errorf("day entries not consecutive: %s then %s",
				prev.Format("2006-01-02"), cur.Format("2006-01-02"))
		}
	}

	var months []Month
	for i := 0; i < len(entries); {
		first := entries[i].Date
		m := Month{
			Year:  first.Year(),
			Month: first.Month(),
			Label: first.Format("January 2006"),
		}

		// Pad the first row back to Sunday.
		week := make(Week, 0, 7)
		for pad := 0; pad < int(first.Weekday()); pad++ {
			week = append(week, Day{})
		}

		for ; i < len(entries) && entries[i].Date.Month() == m.Month && entries[i].Date.Year() == m.Year; i++ {
			e := entries[i]
			week = append(week, Day{
				Entry:   &e,
				InMonth: true,
				Label:   strconv.Itoa(e.Date.Day()),
			})
			if len(week) == 7 {
				m.Weeks = append(m.Weeks, week)
				week = make(Week, 0, 7)
			}
		}

		if len(week) > 0 {
			for len(week) < 7 {
				week = append(week, Day{})
			}
			m.Weeks = append(m.Weeks, week)
		}

		months = append(months, m)
	}

	return months, nil
}
