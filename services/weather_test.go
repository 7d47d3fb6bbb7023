package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherCurrentOk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Reykjavik", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"location": {"name": "Reykjavik"},
			"current": {
				"temp_c": 3.5, "feelslike_c": -1.2, "humidity": 80,
				"wind_kph": 32.4, "precip_mm": 1.4,
				"condition": {"text": "Light rain"}
			}
		}`))
	}))
	defer server.Close()

	service := &WeatherAPIService{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}

	snapshot, err := service.Current(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, "Reykjavik", snapshot.Location)
	assert.Equal(t, "Light rain", snapshot.Condition)
	assert.Equal(t, 3.5, snapshot.TempC)
	assert.Equal(t, -1.2, snapshot.FeelsLikeC)
	assert.Equal(t, 80, snapshot.Humidity)
	assert.False(t, snapshot.FetchedAt.IsZero())
	assert.Contains(t, snapshot.String(), "Light rain")
}

func TestWeatherCurrentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"message": "API key invalid"}}`))
	}))
	defer server.Close()

	service := &WeatherAPIService{
		APIKey:     "bad-key",
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := service.Current(context.Background(), "Reykjavik")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestWeatherCurrentGarbageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	service := &WeatherAPIService{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}

	_, err := service.Current(context.Background(), "Reykjavik")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}
