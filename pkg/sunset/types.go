package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

// Daylight is the sunrise-to-sunset span for one calendar date at a place.
// Sunrise and Sunset are local to the place. The interval is half-open:
// sunrise belongs to it, sunset does not.
type Daylight struct {
	// Date is midnight local time of the day this interval describes.
	Date time.Time
	// Sunrise and Sunset bound the daylight. A polar night yields
	// Sunrise == Sunset (empty interval); a polar day spans the whole day.
	Sunrise, Sunset time.Time
}

// Contains reports whether t falls within [sunrise, sunset).
func (d Daylight) Contains(t time.Time) bool {
	return !t.Before(d.Sunrise) && t.Before(d.Sunset)
}

// Empty reports a degenerate interval with no daylight at all.
func (d Daylight) Empty() bool {
	return !d.Sunset.After(d.Sunrise)
}

func (d Daylight) String() string {
	return fmt.Sprintf("%s rise %s set %s",
		d.Date.Format("2006-01-02"),
		d.Sunrise.Format("15:04"),
		d.Sunset.Format("15:04"))
}
