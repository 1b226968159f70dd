// Package handlers wires the calendar service to HTTP. It owns request
// parsing, the session-backed preferences, and presentation; all tide logic
// stays in pkg/lowtide.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/stations"
	"github.com/pshannon/minustide/pkg/sunset"
)

// Register installs all routes on r.
func Register(r *mux.Router, svc *lowtide.Service) {
	r.Handle("/", makeIndex(svc))
	r.Handle("/api/v1/calendar", makeCalendarAPI(svc))
	r.Handle("/metrics", promhttp.Handler())
}

// calendarRequest is a parsed, defaulted query for one station-month.
type calendarRequest struct {
	Station stations.Station
	Year    int
	Month   time.Month
	Opts    lowtide.Options
}

// parseRequest resolves query parameters against session-remembered
// preferences and the registry defaults. Unknown station ids are an error;
// everything else falls back quietly.
func parseRequest(r *http.Request, sessionStation stations.Station, sessionThreshold float64) (calendarRequest, error) {
	station := sessionStation
	if id := r.FormValue("station"); id != "" {
		st, ok := stations.ByID(id)
		if !ok {
			return calendarRequest{}, fmt.Errorf("unknown station %q", id)
		}
		station = st
	}

	now := time.Now().In(station.Location)
	req := calendarRequest{
		Station: station,
		Year:    parseIntOr(r.FormValue("year"), now.Year()),
		Month:   time.Month(parseIntOr(r.FormValue("month"), int(now.Month()))),
	}
	if req.Month < time.January || req.Month > time.December {
		return calendarRequest{}, fmt.Errorf("month %d out of range", req.Month)
	}

	req.Opts.Threshold = parseFloatOr(r.FormValue("threshold"), sessionThreshold)
	req.Opts.High = r.FormValue("kind") == "high"

	switch r.FormValue("days") {
	case "weekday":
		req.Opts.Days = lowtide.DayWeekday
	case "weekend":
		req.Opts.Days = lowtide.DayWeekend
	}
	switch r.FormValue("hours") {
	case "day1":
		req.Opts.Hours = lowtide.HoursDayPlus
	case "night":
		req.Opts.Hours = lowtide.HoursNight
	}

	return req, nil
}

// apiResponse is the JSON shape served by the calendar API.
type apiResponse struct {
	Station  string            `json:"station"`
	Timezone string            `json:"tz"`
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Entries  []lowtide.DayEntry `json:"entries"`
}

func makeCalendarAPI(svc *lowtide.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		sessionStation, sessionThreshold := prefsFromSession(session)

		req, err := parseRequest(r, sessionStation, sessionThreshold)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries, err := svc.GetMonth(r.Context(), req.Station, req.Year, req.Month, req.Opts)
		if err != nil {
			serveServiceError(w, err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(apiResponse{
			Station:  req.Station.ID,
			Timezone: req.Station.Location.String(),
			Year:     req.Year,
			Month:    int(req.Month),
			Entries:  entries,
		}); err != nil {
			log.Printf("Failed to encode JSON result: %+v", err)
		}
	})
}

// serveServiceError maps the service error taxonomy onto status codes. The
// user-facing message never carries upstream internals.
func serveServiceError(w http.ResponseWriter, err error) {
	log.Printf("Failed to get calendar: %+v", err)
	switch {
	case errors.Is(err, sunset.ErrInvalidDate):
		http.Error(w, "requested dates are not supported", http.StatusBadRequest)
	case errors.Is(err, noaa.ErrUpstreamUnavailable):
		http.Error(w, "tide data temporarily unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, noaa.ErrMalformedResponse):
		http.Error(w, "tide feed returned unusable data", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
