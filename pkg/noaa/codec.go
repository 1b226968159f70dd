package noaa

import (
	"encoding/json"
	"fmt"
	"time"
)

// storedPrediction is the cache encoding of a Prediction. Times are stored
// as Unix seconds so that a cached entry decodes identically regardless of
// the process's own timezone.
type storedPrediction struct {
	Unix   int64   `json:"t"`
	Height float64 `json:"v"`
	Type   string  `json:"type"`
}

// Encode serializes a normalized prediction series for the cache store.
func Encode(preds Predictions) ([]byte, error) {
	stored := make([]storedPrediction, len(preds))
	for i, p := range preds {
		stored[i] = storedPrediction{
			Unix:   p.Time.Unix(),
			Height: float64(p.Height),
			Type:   p.Type.String(),
		}
	}
	return json.Marshal(stored)
}

// Decode reverses Encode, placing times in loc.
func Decode(buf []byte, loc *time.Location) (Predictions, error) {
	var stored []storedPrediction
	if err := json.Unmarshal(buf, &stored); err != nil {
		return nil, err
	}
	preds := make(Predictions, len(stored))
	for i, s := range stored {
		var kind Tide
		switch s.Type {
		case "H":
			kind = HighTide
		case "L":
			kind = LowTide
		default:
			return nil, fmt.Errorf("invalid cached tide type %q", s.Type)
		}
		preds[i] = Prediction{
			Time:   time.Unix(s.Unix, 0).In(loc),
			Height: Height(s.Height),
			Type:   kind,
		}
	}
	return preds, nil
}
