package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/avonside/weather-bulletin/internal/bulletin"
	"github.com/avonside/weather-bulletin/internal/forecast"
	"github.com/avonside/weather-bulletin/internal/store"
)

type stubFeed struct {
	observations []forecast.Observation
}

func (s stubFeed) Fetch(ctx context.Context) ([]forecast.Observation, error) {
	return s.observations, nil
}

// coverageFor builds observations covering every day part of now's date and
// the next, so any bulletin window can compose.
func coverageFor(now time.Time) []forecast.Observation {
	var observations []forecast.Observation
	for d := 0; d < 2; d++ {
		day := now.AddDate(0, 0, d)
		for _, hour := range []int{2, 8, 13, 20} {
			observations = append(observations, forecast.Observation{
				Time:                   time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC),
				MaxScreenAirTemp:       11.0,
				MinScreenAirTemp:       6.0,
				SignificantWeatherCode: 1,
				UVIndex:                2,
				ProbOfRain:             10,
			})
		}
	}
	return observations
}

func newTestApp() *fiber.App {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	memStore := store.NewMemoryStore(10, 0)
	feed := stubFeed{observations: coverageFor(now)}
	svc := bulletin.NewService(feed, nil, memStore, &forecast.Composer{Place: "North East Somerset"}, "")
	svc.Now = func() time.Time { return now }

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app
}

func TestLatestBeforeAnyGeneration(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bulletin", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestRefreshThenLatest(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bulletin/refresh", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bulletin", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("latest: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var rec bulletin.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec.Text == "" {
		t.Error("expected non-empty bulletin text")
	}
	if rec.Window != "morning" {
		t.Errorf("window = %q, want %q", rec.Window, "morning")
	}
}

func TestHistoryValidation(t *testing.T) {
	app := newTestApp()

	// Missing from/to should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bulletin/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// from after to should also return 400.
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/bulletin/history?from=2024-03-02T00:00:00Z&to=2024-03-01T00:00:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHistoryEmptyRange(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bulletin/history?from=2020-01-01T00:00:00Z&to=2020-01-02T00:00:00Z", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}
