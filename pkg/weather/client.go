package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Units for the temperature field of a report.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Report is the provider response the dashboard consumes: a numeric
// temperature plus a condition descriptor.
type Report struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Name string `json:"name"`
}

// Client calls the external weather provider. Single attempt, no caching,
// no retry; the caller maps failures straight to a server error.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Current fetches current conditions for "city,countryCode".
func (c *Client) Current(ctx context.Context, city, countryCode, units string) (*Report, error) {
	if units == "" {
		units = UnitsMetric
	}
	q := url.Values{}
	q.Set("q", city+","+countryCode)
	q.Set("units", units)
	q.Set("appid", c.APIKey)

	endpoint := c.BaseURL + "/data/2.5/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather lookup: provider returned %d", resp.StatusCode)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("weather lookup: decode: %w", err)
	}
	return &report, nil
}
