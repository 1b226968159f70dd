// Command monthly prints one month of qualifying tides for a station as
// plain text. Useful for piping into notify scripts and for smoke-testing
// the feed without a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pshannon/minustide/pkg/cache"
	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/stations"
)

func main() {
	stationID := flag.String("station", stations.Default.ID, "station id to query")
	year := flag.Int("year", 0, "year to query (default: current)")
	month := flag.Int("month", 0, "month to query, 1-12 (default: current)")
	threshold := flag.Float64("threshold", lowtide.DefaultThreshold, "qualifying height in feet MLLW")
	high := flag.Bool("high", false, "search high tides instead of low")
	flag.Parse()

	station, ok := stations.ByID(*stationID)
	if !ok {
		for _, s := range stations.All() {
			fmt.Printf("%-14s %s\n", s.ID, s.Name)
		}
		log.Fatalf("unknown station %q", *stationID)
	}

	now := time.Now().In(station.Location)
	if *year == 0 {
		*year = now.Year()
	}
	if *month == 0 {
		*month = int(now.Month())
	}

	svc := lowtide.NewService(noaa.NewClient(), cache.NewLoader(cache.NewMemory()))
	entries, err := svc.GetMonth(context.Background(), station, *year, time.Month(*month), lowtide.Options{
		Threshold: *threshold,
		High:      *high,
	})
	if err != nil {
		log.Fatalf("failed to get calendar: %v", err)
	}

	fmt.Printf("%s, %s %d\n", station.Name, time.Month(*month), *year)
	found := false
	for _, e := range entries {
		if !e.HasData() {
			fmt.Printf("%s  (no data)\n", e.Date.Format("Mon Jan _2"))
			continue
		}
		for _, tide := range e.Tides {
			fmt.Printf("%s  %s\n", e.Date.Format("Mon Jan _2"), tide)
			found = true
		}
	}
	if !found {
		fmt.Println("no qualifying tides")
	}
}
