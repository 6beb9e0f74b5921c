// Package weather fetches daily forecasts for a trip destination from the
// Open-Meteo geocoding and forecast APIs. Neither API needs a key.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkordes/packing-list/backend/internal/domain"
)

const (
	// DefaultGeocodingURL is the Open-Meteo place search endpoint.
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	// DefaultForecastURL is the Open-Meteo forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	dateLayout = "2006-01-02"
)

// Client calls Open-Meteo. The zero value is not usable; use NewClient.
type Client struct {
	geocodingURL string
	forecastURL  string
	http         *http.Client
	now          func() time.Time
}

// NewClient returns a Client for the given endpoints. Empty URLs fall back to
// the public Open-Meteo endpoints.
func NewClient(geocodingURL, forecastURL string, timeout time.Duration) *Client {
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	return &Client{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		http:         &http.Client{Timeout: timeout},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Forecast geocodes destination and returns one WeatherDay per date in
// [start, end]. Returns domain.ErrValidation if the destination cannot be
// located or the upstream rejects the date range.
func (c *Client) Forecast(ctx context.Context, destination string, start, end time.Time) (domain.Weather, error) {
	lat, lon, err := c.coordinates(ctx, destination)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("weather.Client.Forecast: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,weather_code")
	params.Set("start_date", start.Format(dateLayout))
	params.Set("end_date", end.Format(dateLayout))
	params.Set("timezone", "auto")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, params, &resp); err != nil {
		return domain.Weather{}, fmt.Errorf("weather.Client.Forecast: %w", err)
	}

	d := resp.Daily
	days := make([]domain.WeatherDay, 0, len(d.Time))
	for i, date := range d.Time {
		day := domain.WeatherDay{Date: date}
		if i < len(d.TempMax) && i < len(d.TempMin) {
			day.TempMax = d.TempMax[i]
			day.TempMin = d.TempMin[i]
			day.Temp = (day.TempMax + day.TempMin) / 2
		}
		if i < len(d.Humidity) {
			day.Humidity = int(math.Round(d.Humidity[i]))
		}
		if i < len(d.WeatherCode) {
			day.Conditions = Describe(d.WeatherCode[i])
		}
		days = append(days, day)
	}

	return domain.Weather{Daily: days, FetchedAt: c.now()}, nil
}

// coordinates returns the latitude and longitude of the best match for place.
func (c *Client) coordinates(ctx context.Context, place string) (float64, float64, error) {
	params := url.Values{}
	params.Set("name", place)
	params.Set("count", "1")

	var resp struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingURL, params, &resp); err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("%w: no location found for destination %q", domain.ErrValidation, place)
	}
	return resp.Results[0].Latitude, resp.Results[0].Longitude, nil
}

// getJSON issues a GET and decodes the JSON body into out. A 400 from
// Open-Meteo carries a human-readable reason and is reported as a validation
// error; any other non-200 status is an upstream failure.
func (c *Client) getJSON(ctx context.Context, base string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var apiErr struct {
			Reason string `json:"reason"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%w: weather unavailable: %s", domain.ErrValidation, apiErr.Reason)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", base, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", base, err)
	}
	return nil
}

type forecastResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		Humidity    []float64 `json:"relative_humidity_2m_mean"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}
