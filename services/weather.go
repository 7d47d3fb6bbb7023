package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const weatherTimeout = 15 * time.Second

// WeatherSnapshot is an immutable current-conditions value fetched fresh per
// recommendation request.
type WeatherSnapshot struct {
	Location      string    `json:"location"`
	Condition     string    `json:"condition"`
	TempC         float64   `json:"temp_c"`
	FeelsLikeC    float64   `json:"feelslike_c"`
	Humidity      int       `json:"humidity"`
	WindKph       float64   `json:"wind_kph"`
	PrecipMM      float64   `json:"precip_mm"`
	FetchedAt     time.Time `json:"fetched_at"`
}

func (w *WeatherSnapshot) String() string {
	return fmt.Sprintf("%s: %s, %.1fC (feels like %.1fC), humidity %d%%, wind %.1f kph, precipitation %.1f mm",
		w.Location, w.Condition, w.TempC, w.FeelsLikeC, w.Humidity, w.WindKph, w.PrecipMM)
}

type WeatherProvider interface {
	Current(ctx context.Context, location string) (*WeatherSnapshot, error)
}

// WeatherAPIService talks to weatherapi.com. A non-2xx answer is fatal for
// the whole recommendation, there is no stale-weather fallback.
type WeatherAPIService struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewWeatherAPIService() *WeatherAPIService {
	return &WeatherAPIService{
		APIKey:     os.Getenv("WEATHERAPI_KEY"),
		BaseURL:    "https://api.weatherapi.com/v1",
		HTTPClient: &http.Client{Timeout: weatherTimeout},
	}
}

type weatherAPIResponse struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		FeelsLikeC float64 `json:"feelslike_c"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		PrecipMM   float64 `json:"precip_mm"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (s *WeatherAPIService) Current(ctx context.Context, location string) (*WeatherSnapshot, error) {
	query := url.Values{}
	query.Add("key", s.APIKey)
	query.Add("q", location)

	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+"/current.json?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather fetch for %q failed: %v: %w", location, err, ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather fetch for %q returned status %d: %s: %w", location, resp.StatusCode, string(body), ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %v: %w", err, ErrUpstreamUnavailable)
	}

	var parsed weatherAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse weather response %q: %v: %w", string(body), err, ErrUpstreamUnavailable)
	}

	name := parsed.Location.Name
	if name == "" {
		name = location
	}
	return &WeatherSnapshot{
		Location:   name,
		Condition:  parsed.Current.Condition.Text,
		TempC:      parsed.Current.TempC,
		FeelsLikeC: parsed.Current.FeelsLikeC,
		Humidity:   parsed.Current.Humidity,
		WindKph:    parsed.Current.WindKph,
		PrecipMM:   parsed.Current.PrecipMM,
		FetchedAt:  time.Now().UTC(),
	}, nil
}
