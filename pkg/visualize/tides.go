// Package visualize renders a one-day SVG strip of the tide curve with the
// daylight window and the qualifying-height band shaded.
package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pshannon/minustide/pkg/noaa"
	"github.com/pshannon/minustide/pkg/noaa/splines"
	"github.com/pshannon/minustide/pkg/sunset"
	"github.com/pshannon/minustide/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// The vertical scale fits 10 feet of tide range, 2 feet below datum.
	feetShown  = 10
	feetBelow  = 2
	feetPerRow = float64(height) / feetShown
)

// Tidal draws days out of a prediction series and its daylight intervals.
type Tidal struct {
	date      time.Time
	preds     noaa.Predictions
	daylight  map[string]sunset.Daylight
	threshold float64
}

func NewTidal(preds noaa.Predictions, daylight map[string]sunset.Daylight, threshold float64) *Tidal {
	return &Tidal{
		preds:     preds,
		daylight:  daylight,
		threshold: threshold,
	}
}

// SetDate selects which calendar day Encode draws.
func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.Midnight(t)
}

// Encode writes the SVG for the selected day.
func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Shade the daylight window when it is known.
	dl, haveDaylight := img.daylight[timetricks.UniqueDay(img.date)]
	risex, setx := 0, 0
	if haveDaylight && !dl.Empty() {
		risex = img.timeToX(dl.Sunrise)
		setx = img.timeToX(dl.Sunset)
		io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
			risex, 0,
			setx-risex, height))
	}

	// Band of heights at or below the qualifying threshold.
	io(fmt.Fprintf(w, `<rect class="qualifying" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, heightToY(img.threshold),
		width, height-heightToY(img.threshold)))

	// Choose the first tide prediction to start from. Should be off screen;
	// if not, just start at the beginning.
	i, ok := img.indexPredPreceding(img.date)
	if !ok {
		i = 0
	}
	startPredI, endPredI := i, i

	for ; i+1 < len(img.preds); i++ {
		x1 := img.timeToX(img.preds[i].Time)
		y1 := heightToY(float64(img.preds[i].Height))
		if x1 > width {
			break
		}
		endPredI = i + 1
		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x1, y1))

		x2 := img.timeToX(img.preds[i+1].Time) + 1 // +1 to create overlap
		y2 := heightToY(float64(img.preds[i+1].Height))

		cx1, cy1 := (x1+x2)/2, y1
		cx2, cy2 := cx1, y2

		io(fmt.Fprintf(w, `C %d,%d %d,%d %d,%d `,
			cx1, cy1,
			cx2, cy2,
			x2, y2))

		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`, x2, height, x1, height))
	}

	// Night-time shadows on both sides of the daylight window.
	if haveDaylight && !dl.Empty() {
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
			0, 0,
			risex, height))
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
			setx, 0,
			width-setx, height))
	} else {
		// Daylight unknown or absent: shade the whole day.
		io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="0" y="0" width="%d" height="%d"/>`,
			width, height))
	}

	// Insert spline data as JSON for client-side hover readouts.
	if startPredI < endPredI {
		spline := splines.CurvesBetween(img.preds[startPredI : endPredI+1])
		io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
		json.NewEncoder(w).Encode(spline)
		io(fmt.Fprintf(w, `</text>`))
	}

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) indexPredPreceding(t time.Time) (int, bool) {
	left, right := 0, len(img.preds)
	for right-left > 1 {
		mid := (left + right) / 2
		midt := img.preds[mid].Time
		if midt.Before(t) {
			left = mid
		} else if midt.After(t) {
			right = mid
		} else {
			return mid, true
		}
	}
	ok := left < len(img.preds)
	return left, ok
}

func heightToY(h float64) int {
	return height - int((h+feetBelow)*feetPerRow)
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
