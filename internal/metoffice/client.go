// Package metoffice fetches site-specific forecasts from the Met Office
// DataHub and decodes them into observations for aggregation.
package metoffice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avonside/weather-bulletin/internal/forecast"
	"github.com/sony/gobreaker"
)

// Timesteps selects the feed resolution.
type Timesteps string

const (
	Hourly      Timesteps = "hourly"
	ThreeHourly Timesteps = "three-hourly"
)

const defaultBaseURL = "https://data.hub.api.metoffice.gov.uk/sitespecific/v0/point"

// Client fetches the point forecast feed for one fixed location.
type Client struct {
	apiKey    string
	baseURL   string // overridable for testing
	lat, lon  float64
	timesteps Timesteps
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
}

// NewClient creates a feed client for the given coordinates.
func NewClient(client *http.Client, apiKey string, lat, lon float64, timesteps Timesteps) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "metoffice",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		lat:       lat,
		lon:       lon,
		timesteps: timesteps,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Fetch retrieves one forecast snapshot and decodes its time series.
func (c *Client) Fetch(ctx context.Context) ([]forecast.Observation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("met office api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("excludeParameterMetadata", "false")
		values.Set("includeLocationName", "true")
		values.Set("latitude", strconv.FormatFloat(c.lat, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(c.lon, 'f', -1, 64))

		u := fmt.Sprintf("%s/%s?%s", c.baseURL, c.timesteps, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("apikey", c.apiKey)
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast feed: %w", err)
	}

	return payload.observations()
}

// feedEnvelope mirrors the GeoJSON wrapper around the time series.
type feedEnvelope struct {
	Features []struct {
		Properties struct {
			TimeSeries []feedEntry `json:"timeSeries"`
		} `json:"properties"`
	} `json:"features"`
}

// feedEntry decodes with pointer fields so that a missing required key is
// distinguishable from a zero value and fails fast.
type feedEntry struct {
	Time                   *string  `json:"time"`
	MaxScreenAirTemp       *float64 `json:"maxScreenAirTemp"`
	MinScreenAirTemp       *float64 `json:"minScreenAirTemp"`
	SignificantWeatherCode *int     `json:"significantWeatherCode"`
	UVIndex                *int     `json:"uvIndex"`
	ProbOfRain             *int     `json:"probOfRain"`
}

func (f feedEnvelope) observations() ([]forecast.Observation, error) {
	if len(f.Features) == 0 {
		return nil, fmt.Errorf("forecast feed contains no features")
	}

	series := f.Features[0].Properties.TimeSeries
	if len(series) == 0 {
		return nil, fmt.Errorf("forecast feed contains no time series entries")
	}

	observations := make([]forecast.Observation, 0, len(series))
	for _, entry := range series {
		o, err := entry.toObservation()
		if err != nil {
			return nil, err
		}
		observations = append(observations, o)
	}
	return observations, nil
}

func (e feedEntry) toObservation() (forecast.Observation, error) {
	switch {
	case e.Time == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "time", Reason: "is missing"}
	case e.MaxScreenAirTemp == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "maxScreenAirTemp", Reason: "is missing"}
	case e.MinScreenAirTemp == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "minScreenAirTemp", Reason: "is missing"}
	case e.SignificantWeatherCode == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "significantWeatherCode", Reason: "is missing"}
	case e.UVIndex == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "uvIndex", Reason: "is missing"}
	case e.ProbOfRain == nil:
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "probOfRain", Reason: "is missing"}
	}

	ts, err := parseFeedTime(*e.Time)
	if err != nil {
		return forecast.Observation{}, &forecast.MalformedObservationError{Field: "time", Reason: err.Error()}
	}

	o := forecast.Observation{
		Time:                   ts,
		MaxScreenAirTemp:       *e.MaxScreenAirTemp,
		MinScreenAirTemp:       *e.MinScreenAirTemp,
		SignificantWeatherCode: forecast.Code(*e.SignificantWeatherCode),
		UVIndex:                *e.UVIndex,
		ProbOfRain:             *e.ProbOfRain,
	}
	if err := o.Validate(); err != nil {
		return forecast.Observation{}, err
	}
	return o, nil
}

// parseFeedTime accepts RFC3339 as well as the minute-precision form the
// DataHub actually emits ("2024-03-01T09:00Z").
func parseFeedTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02T15:04Z07:00", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("is not a valid timestamp")
	}
	return ts, nil
}
