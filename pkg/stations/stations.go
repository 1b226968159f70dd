// Package stations is the fixed registry of coastal observation stations.
// Each station pairs a NOAA CO-OPS station id with coordinates and the IANA
// timezone that governs its calendar days. The set is curated, loaded once,
// and immutable for the process lifetime; to find more stations see
// https://tidesandcurrents.noaa.gov/map/index.html.
package stations

import (
	"fmt"
	"time"
)

// Station is a fixed observation point publishing tide predictions.
type Station struct {
	// ID is the stable identifier used in URLs and cache keys.
	ID string
	// Name is the human-readable label.
	Name string
	// NOAAID is the CO-OPS monitoring station id.
	NOAAID int
	// Lat and Long are decimal degrees.
	Lat, Long float64
	// Location is the station's IANA timezone.
	Location *time.Location
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%d)", s.Name, s.NOAAID)
}

var (
	Seattle = Station{
		ID:       "seattle",
		Name:     "Seattle, WA",
		NOAAID:   9447130,
		Lat:      47.6,
		Long:     -122.32,
		Location: locationOrPanic("America/Los_Angeles"),
	}
	CannonBeach = Station{
		ID:       "cannon_beach",
		Name:     "Cannon Beach, OR",
		NOAAID:   9437585,
		Lat:      45.89177,
		Long:     -123.96153,
		Location: locationOrPanic("America/Los_Angeles"),
	}
	Provincetown = Station{
		ID:       "provincetown",
		Name:     "Provincetown, MA",
		NOAAID:   8446121,
		Lat:      42.0521329,
		Long:     -70.1927079,
		Location: locationOrPanic("America/New_York"),
	}
)

// Default is the station served when a request names none.
var Default = Seattle

var all = []Station{Seattle, CannonBeach, Provincetown}

var byID = func() map[string]Station {
	m := make(map[string]Station, len(all))
	for _, s := range all {
		m[s.ID] = s
	}
	return m
}()

// All returns the registry in display order.
func All() []Station {
	out := make([]Station, len(all))
	copy(out, all)
	return out
}

// ByID looks up a station by its stable identifier.
func ByID(id string) (Station, bool) {
	s, ok := byID[id]
	return s, ok
}

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
