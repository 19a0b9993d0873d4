// Package lookup holds the best-effort clients for the two external HTTP
// collaborators: current weather by city and packaged-food search. Both use
// raw net/http with bounded timeouts; failures degrade (skip the heat bonus,
// fall back to the local table) and are never fatal.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org"

// WeatherClient queries the OpenWeather current-weather endpoint.
type WeatherClient struct {
	apiKey  string
	baseURL string // overridable for tests
	httpc   *http.Client
}

// NewWeatherClient builds a client. An empty baseURL selects the real API.
func NewWeatherClient(apiKey, baseURL string) *WeatherClient {
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// CityTemperature returns the current temperature in Celsius for a city.
// Any failure (network, non-200, missing field) is an error; callers treat
// it as "temperature unknown" and skip heat-dependent logic.
func (c *WeatherClient) CityTemperature(ctx context.Context, city string) (float64, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("weather api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}
	if result.Main == nil || result.Main.Temp == nil {
		return 0, fmt.Errorf("weather response missing temperature")
	}
	return *result.Main.Temp, nil
}
