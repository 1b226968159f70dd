package lowtide

import (
	"context"
	"fmt"
	"time"

	"github.com/pshannon/minustide/pkg/cache"
	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/stations"
	"github.com/pshannon/minustide/pkg/sunset"
	"github.com/pshannon/minustide/pkg/timetricks"
)

const (
	// feedVersion is baked into cache keys; bump it to invalidate every
	// stored entry after a change to the feed query or the codec.
	feedVersion = 1

	// refreshTTL bounds how long an entry whose range spans today may be
	// served, so late corrections in the feed are picked up. Ranges
	// entirely in the past or future never change and cache forever.
	refreshTTL = 6 * time.Hour
)

// Fetcher fetches normalized predictions; *noaa.Client is the production
// implementation.
type Fetcher interface {
	GetPredictions(ctx context.Context, q *noaa.PredictionQuery) (noaa.Predictions, error)
}

// Service is the calendar query interface: it answers month and day-range
// requests by combining the cached prediction feed with computed daylight.
type Service struct {
	fetcher Fetcher
	loader  *cache.Loader
	now     func() time.Time
}

func NewService(fetcher Fetcher, loader *cache.Loader) *Service {
	return &Service{
		fetcher: fetcher,
		loader:  loader,
		now:     time.Now,
	}
}

// GetMonth returns one DayEntry per day of the month, in calendar order.
// The month's bounds are taken in the station's local timezone.
func (s *Service) GetMonth(ctx context.Context, station stations.Station, year int, month time.Month, opts Options) ([]DayEntry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, station.Location)
	end := start.AddDate(0, 1, -1)
	return s.Window(ctx, station, start, end, opts)
}

// Window returns one DayEntry per day of the inclusive range [start, end],
// interpreted in the station's local timezone.
func (s *Service) Window(ctx context.Context, station stations.Station, start, end time.Time, opts Options) ([]DayEntry, error) {
	start = timetricks.Midnight(start.In(station.Location))
	end = timetricks.Midnight(end.In(station.Location))
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range ends %s before it starts %s",
			sunset.ErrInvalidDate, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	// Reject unsupported dates before any fetch.
	if !sunset.ValidDate(start) || !sunset.ValidDate(end) {
		return nil, fmt.Errorf("%w: %s to %s",
			sunset.ErrInvalidDate, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	key := fmt.Sprintf("v%d/%s/%s/%s",
		feedVersion, station.ID, timetricks.UniqueDay(start), timetricks.UniqueDay(end))
	maxAge := time.Duration(0)
	if today := timetricks.Midnight(s.now().In(station.Location)); !today.Before(start) && !today.After(end) {
		maxAge = refreshTTL
	}

	buf, err := s.loader.GetOrFetch(ctx, key, maxAge, func(ctx context.Context) ([]byte, error) {
		preds, err := s.fetcher.GetPredictions(ctx, &noaa.PredictionQuery{
			Station: station,
			Start:   start,
			End:     end,
		})
		if err != nil {
			return nil, err
		}
		return noaa.Encode(preds)
	})
	if err != nil {
		return nil, err
	}

	preds, err := noaa.Decode(buf, station.Location)
	if err != nil {
		return nil, fmt.Errorf("corrupt cache entry %q: %w", key, err)
	}

	place := sunset.Place{Lat: station.Lat, Long: station.Long, Location: station.Location}
	days := 0
	for day := start; !day.After(end); day = timetricks.NextDay(day) {
		days++
	}
	daylight := sunset.Range(place, start, days)

	return ComputeWindows(preds, daylight, start, end, opts), nil
}
