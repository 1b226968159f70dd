package noaa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pshannon/minustide/pkg/stations"
)

const (
	// DefaultURL is the NOAA CO-OPS data endpoint.
	DefaultURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

	dateFormat = "20060102"

	// fetchMargin pads the requested range on both ends so that tides
	// straddling a day boundary in the feed are never lost.
	fetchMargin = 24 * time.Hour

	defaultTimeout = 15 * time.Second
)

var (
	// ErrUpstreamUnavailable reports that NOAA could not be reached or
	// declined the request. Recoverable; retry policy belongs to the caller.
	ErrUpstreamUnavailable = errors.New("tide feed unavailable")

	// ErrMalformedResponse reports that NOAA answered but the payload could
	// not be parsed into ordered, alternating high/low events. Never
	// silently dropped; the series must not be used.
	ErrMalformedResponse = errors.New("malformed tide feed response")
)

// PredictionQuery asks for tide events at a station covering the calendar
// days [Start, End] inclusive, interpreted in the station's local time.
type PredictionQuery struct {
	Station stations.Station
	Start   time.Time
	End     time.Time
}

// Client fetches tide predictions from NOAA. The zero value is not usable;
// see NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client against the production NOAA endpoint with a
// bounded request timeout.
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// GetPredictions fetches and normalizes tide predictions for q. The result
// is ordered by time and validated to alternate high/low. It does not retry.
func (c *Client) GetPredictions(ctx context.Context, q *PredictionQuery) (Predictions, error) {
	addr, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	addr.RawQuery = q.build().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var result noaaResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, result.Error.Message)
	}

	preds := make(Predictions, 0, len(result.Predictions))
	for _, raw := range result.Predictions {
		t, err := time.ParseInLocation(predTimeFormat, raw.Time, q.Station.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: prediction time %q not in fmt %q", ErrMalformedResponse, raw.Time, predTimeFormat)
		}
		preds = append(preds, Prediction{
			Time:   t,
			Height: raw.Height,
			Type:   raw.Type,
		})
	}

	if err := preds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return preds, nil
}

func (q *PredictionQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("begin_date", q.Start.Add(-fetchMargin).Format(dateFormat))
	vals.Add("end_date", q.End.Add(fetchMargin).Format(dateFormat))
	vals.Add("station", fmt.Sprintf("%d", q.Station.NOAAID))
	vals.Add("product", "predictions")
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "lst_ldt")
	vals.Add("interval", "hilo")
	vals.Add("units", "english")
	vals.Add("format", "json")
	return vals
}
