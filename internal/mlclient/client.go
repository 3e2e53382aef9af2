// Package mlclient talks to the external price-prediction service.
// Prediction failures are always degraded to a local fallback by callers,
// never surfaced as hard errors.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	predictTimeout = 5 * time.Second
	healthTimeout  = 3 * time.Second
	trainTimeout   = 5 * time.Minute
)

// Prediction source labels reported to API callers.
const (
	SourceModel      = "ml_model"
	SourceFallback   = "calculated_fallback"
	SourceHistorical = "historical_average"
)

// Features is the payload sent to the prediction endpoint.
type Features struct {
	CropType     string  `json:"crop_type"`
	Region       string  `json:"region"`
	Quality      string  `json:"quality"`
	QuantityKg   float64 `json:"quantity_kg"`
	Season       string  `json:"season,omitempty"`
	Weather      string  `json:"weather,omitempty"`
	MarketDemand string  `json:"market_demand,omitempty"`
	Year         int     `json:"year,omitempty"`
	Month        int     `json:"month,omitempty"`
}

// ApplyDefaults fills optional fields the way the prediction service expects.
func (f *Features) ApplyDefaults(now time.Time) {
	if f.QuantityKg <= 0 {
		f.QuantityKg = 1000
	}
	if f.Season == "" {
		f.Season = SeasonFromMonth(now.Month())
	}
	if f.Weather == "" {
		f.Weather = "Normal"
	}
	if f.MarketDemand == "" {
		f.MarketDemand = "Medium"
	}
	if f.Year == 0 {
		f.Year = now.Year()
	}
	if f.Month == 0 {
		f.Month = int(now.Month())
	}
}

// SeasonFromMonth maps a calendar month to the service's season labels.
func SeasonFromMonth(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Autumn"
	}
}

// Prediction is the result of a prediction call.
type Prediction struct {
	Price      float64 `json:"predicted_price"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"method"`
	Currency   string  `json:"currency"`
	TotalValue float64 `json:"total_value"`
}

// HealthStatus describes the remote service's availability.
type HealthStatus struct {
	Available   bool      `json:"available"`
	ModelLoaded bool      `json:"model_loaded"`
	CheckedAt   time.Time `json:"checked_at"`
}

// TrainResult is the outcome of a retrain request.
type TrainResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client is an HTTP client for the prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Predict calls POST /api/predict with a bounded timeout.
func (c *Client) Predict(ctx context.Context, features Features) (*Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, predictTimeout)
	defer cancel()

	var resp struct {
		Success        bool    `json:"success"`
		PredictedPrice float64 `json:"predicted_price"`
		Confidence     float64 `json:"confidence"`
		Method         string  `json:"method"`
		Currency       string  `json:"currency"`
		TotalValue     float64 `json:"total_value"`
		Error          string  `json:"error"`
	}
	if err := c.postJSON(ctx, "/api/predict", features, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("prediction rejected: %s", resp.Error)
	}

	return &Prediction{
		Price:      resp.PredictedPrice,
		Confidence: resp.Confidence,
		Source:     SourceModel,
		Currency:   resp.Currency,
		TotalValue: resp.TotalValue,
	}, nil
}

// Train calls POST /api/train. Retraining is slow, so the timeout is long.
func (c *Client) Train(ctx context.Context) (*TrainResult, error) {
	ctx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := c.postJSON(ctx, "/api/train", struct{}{}, &resp); err != nil {
		return nil, err
	}

	result := &TrainResult{Success: resp.Success, Message: resp.Message}
	if !resp.Success && resp.Error != "" {
		result.Message = resp.Error
	}
	return result, nil
}

// Health calls GET /health. An unreachable service reports Available=false
// rather than an error.
func (c *Client) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return status
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status
	}

	var body struct {
		Status      string `json:"status"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return status
	}

	status.Available = body.Status == "healthy"
	status.ModelLoaded = body.ModelLoaded
	return status
}

func (c *Client) postJSON(ctx context.Context, path string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
