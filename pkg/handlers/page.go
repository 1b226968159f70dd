package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pshannon/minustide/pkg/calendar"
	"github.com/pshannon/minustide/pkg/lowtide"
	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/stations"
	"github.com/pshannon/minustide/pkg/sunset"
	"github.com/pshannon/minustide/pkg/timetricks"
	"github.com/pshannon/minustide/pkg/visualize"
)

//go:embed static
var content embed.FS

type TemplateInput struct {
	Station              stations.Station
	Stations             []stations.Station
	Month                calendar.Month
	Threshold            float64
	PrevStart            string
	NextStart            string
	PresentationElements []PresentationElement
}

// PresentationElement is one qualifying day rendered for the detail list
// under the calendar grid.
type PresentationElement struct {
	Date      string
	Tides     []lowtide.QualifyingTide
	TideImage template.HTML
}

// makeIndex serves the calendar page fully rendered on the server.
func makeIndex(svc *lowtide.Service) http.HandlerFunc {
	indexTemplate := template.Must(template.ParseFS(content, "static/index.template.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		sessionStation, sessionThreshold := prefsFromSession(session)

		req, err := parseRequest(r, sessionStation, sessionThreshold)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rememberPrefs(w, r, session, req.Station, req.Opts.Threshold)

		entries, err := svc.GetMonth(r.Context(), req.Station, req.Year, req.Month, req.Opts)
		if err != nil {
			serveServiceError(w, err)
			return
		}

		months, err := calendar.Assemble(entries)
		if err != nil {
			log.Printf("Failed to assemble calendar: %+v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if len(months) == 0 {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		tinput := TemplateInput{
			Station:              req.Station,
			Stations:             stations.All(),
			Month:                months[0],
			Threshold:            req.Opts.Threshold,
			PrevStart:            monthLink(req, -1),
			NextStart:            monthLink(req, +1),
			PresentationElements: entriesToPresentationElements(entries, req.Opts.Threshold),
		}

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			log.Printf("Failed to execute template: %v", err)
		}
	})
}

// monthLink builds the query string for the page delta months away,
// carrying the rest of the selection along.
func monthLink(req calendarRequest, delta int) string {
	t := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	v := url.Values{}
	v.Set("station", req.Station.ID)
	v.Set("year", fmt.Sprint(t.Year()))
	v.Set("month", fmt.Sprint(int(t.Month())))
	v.Set("threshold", fmt.Sprint(req.Opts.Threshold))
	if req.Opts.High {
		v.Set("kind", "high")
	}
	switch req.Opts.Days {
	case lowtide.DayWeekday:
		v.Set("days", "weekday")
	case lowtide.DayWeekend:
		v.Set("days", "weekend")
	}
	switch req.Opts.Hours {
	case lowtide.HoursDayPlus:
		v.Set("hours", "day1")
	case lowtide.HoursNight:
		v.Set("hours", "night")
	}
	return "?" + v.Encode()
}

func entriesToPresentationElements(entries []lowtide.DayEntry, threshold float64) []PresentationElement {
	// Stitch the per-day series back together so each image can draw the
	// tide curve entering and leaving its day.
	var preds noaa.Predictions
	daylight := make(map[string]sunset.Daylight)
	for _, e := range entries {
		preds = append(preds, e.Events...)
		if e.Daylight != nil {
			daylight[timetricks.UniqueDay(e.Date)] = *e.Daylight
		}
	}
	img := visualize.NewTidal(preds, daylight, threshold)

	var result []PresentationElement
	for _, e := range entries {
		if len(e.Tides) == 0 {
			continue
		}
		result = append(result, PresentationElement{
			Date:      timetricks.Day(e.Date, time.Now().In(e.Date.Location())),
			Tides:     e.Tides,
			TideImage: template.HTML(imgToString(img, e.Date)),
		})
	}
	return result
}

func imgToString(img *visualize.Tidal, t time.Time) string {
	img.SetDate(t)
	var b bytes.Buffer
	img.Encode(&b)
	return b.String()
}
