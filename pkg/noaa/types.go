package noaa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const predTimeFormat = "2006-01-02 15:04"

// Prediction holds a single tide event prediction.
type Prediction struct {
	// Station-local time of the predicted tide.
	Time time.Time `json:"time"`
	// Height in feet relative to MLLW.
	Height Height `json:"height"`
	// High or Low tide.
	Type Tide `json:"type"`
}

// Predictions is a time series of Prediction.
type Predictions []Prediction

// Validate checks the feed invariant: strictly increasing timestamps with
// high and low tides alternating. A violation means the upstream feed is
// malformed and the series must not be trusted.
func (p Predictions) Validate() error {
	for i := 1; i < len(p); i++ {
		if !p[i-1].Time.Before(p[i].Time) {
			return fmt.Errorf("predictions out of order at %s", p[i].Time.Format(predTimeFormat))
		}
		if p[i-1].Type == p[i].Type {
			return fmt.Errorf("consecutive %s tides at %s", p[i].Type, p[i].Time.Format(predTimeFormat))
		}
	}
	for i := range p {
		if !p[i].Type.Valid() {
			return fmt.Errorf("invalid tide type at %s", p[i].Time.Format(predTimeFormat))
		}
	}
	return nil
}

// rawPrediction mirrors the NOAA wire format, which encodes everything as
// strings. Times are parsed separately because the location is only known to
// the caller.
type rawPrediction struct {
	Time   string `json:"t"`
	Height Height `json:"v"`
	Type   Tide   `json:"type"`
}

// Verify the custom types can be unmarshaled.
var _ json.Unmarshaler = new(Height)
var _ json.Unmarshaler = new(Tide)

// noaaResult is the top-level NOAA API payload. Error reports a refusal in
// an otherwise well-formed 200 response.
type noaaResult struct {
	Predictions []rawPrediction `json:"predictions"`
	Error       *noaaError      `json:"error"`
}

type noaaError struct {
	Message string `json:"message"`
}

// Height is a water level in feet relative to the MLLW datum.
type Height float64

// UnmarshalJSON accepts both the NOAA wire form, a float in a string, and a
// plain JSON number.
func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		var f float64
		if err := json.Unmarshal(buf, &f); err != nil {
			return fmt.Errorf("water height %q not a string or number: %w", buf, err)
		}
		*h = Height(f)
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	*h = Height(parsed)
	return nil
}

// Tide encodes a high or low tide, "H" or "L" on the wire.
type Tide uint

const (
	HighTide Tide = iota
	LowTide
)

func (t Tide) Valid() bool {
	return t == HighTide || t == LowTide
}

func (t *Tide) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w", buf, err)
	}
	switch s {
	case "H":
		*t = HighTide
	case "L":
		*t = LowTide
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

func (t Tide) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tide type %d", t)
	}
	return json.Marshal(t.String())
}

func (t Tide) String() string {
	switch t {
	case HighTide:
		return "H"
	case LowTide:
		return "L"
	default:
		return "invalid"
	}
}

func (p Prediction) String() string {
	return fmt.Sprintf("{t: %s, v: %f, type: %s}",
		p.Time.Format(time.RFC822),
		p.Height,
		p.Type.String())
}
