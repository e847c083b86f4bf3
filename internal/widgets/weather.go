package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultWeatherBaseURL = "https://api.open-meteo.com"

// Weather reads the current temperature for a fixed coordinate.
type Weather struct {
	http     *http.Client
	baseURL  string
	lat      float64
	lng      float64
	fallback float64
}

// WeatherConfig configures the weather widget.
type WeatherConfig struct {
	BaseURL  string
	Lat      float64
	Lng      float64
	Fallback float64 // temperature used when the source is unreachable
}

// NewWeather creates the weather widget.
func NewWeather(cfg WeatherConfig) *Weather {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	return &Weather{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		lat:      cfg.Lat,
		lng:      cfg.Lng,
		fallback: cfg.Fallback,
	}
}

type weatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
}

// Temperature returns the current temperature in °C, or the configured
// fallback on any failure. It never returns an error.
func (w *Weather) Temperature(ctx context.Context) float64 {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(w.lat, 'f', 4, 64)},
		"longitude":       {strconv.FormatFloat(w.lng, 'f', 4, 64)},
		"current_weather": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		w.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return w.degrade(err)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return w.degrade(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return w.degrade(fmt.Errorf("weather source returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return w.degrade(err)
	}

	var parsed weatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return w.degrade(err)
	}
	return parsed.CurrentWeather.Temperature
}

func (w *Weather) degrade(err error) float64 {
	zap.L().Warn("weather widget falling back to default",
		zap.Float64("fallback", w.fallback),
		zap.Error(err),
	)
	return w.fallback
}
