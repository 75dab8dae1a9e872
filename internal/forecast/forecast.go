package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Point is one step of a demand forecast time series
type Point struct {
	Date      string  `json:"date"`
	Predicted float64 `json:"predicted"`
}

// Forecaster is the external demand oracle. Implementations may be slow or
// fail entirely; callers are expected to degrade to zero predicted demand
// rather than propagate the failure.
type Forecaster interface {
	Forecast(ctx context.Context, skuID, regionID uint, horizonDays int) ([]Point, error)
}

// Client calls the forecast service over HTTP
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a forecast client with a bounded timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	Forecast []Point `json:"forecast"`
}

// Forecast fetches the predicted demand series for a SKU in a region
func (c *Client) Forecast(ctx context.Context, skuID, regionID uint, horizonDays int) ([]Point, error) {
	url := fmt.Sprintf("%s/forecast?sku_id=%d&region_id=%d&horizon=%d",
		c.BaseURL, skuID, regionID, horizonDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	return body.Forecast, nil
}

// Sum adds up predicted demand over the series
func Sum(points []Point) float64 {
	var total float64
	for _, p := range points {
		total += p.Predicted
	}
	return total
}
