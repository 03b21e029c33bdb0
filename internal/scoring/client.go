// Package scoring talks to the external fraud-scoring API.
//
// A call either returns a validated PredictionResult or an error wrapping one of
// ErrStatus, ErrTransport or ErrMalformedResponse. Nothing is retried.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fraudconsole/internal/models"

	"github.com/go-playground/validator/v10"
)

// APIKeyHeader carries the static credential on every scoring request.
const APIKeyHeader = "X-API-Key"

// Scorer scores a single transaction.
type Scorer interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

// BatchScorer scores many transactions in one call.
type BatchScorer interface {
	PredictBatch(ctx context.Context, req models.BatchPredictionRequest) (*models.BatchPredictionResult, error)
}

// HealthChecker reports whether the scoring API is up.
type HealthChecker interface {
	Health(ctx context.Context) (*models.HealthStatus, error)
}

type Options struct {
	BaseURL   string
	APIKey    string
	HealthURL string
	// Timeout bounds each call. Zero means no client-side limit; the caller's
	// context is then the only way a call ends early.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL   string
	apiKey    string
	healthURL string
	http      *http.Client
	validate  *validator.Validate
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		healthURL: opts.HealthURL,
		http:      hc,
		validate:  newValidator(),
	}
}

// Predict sends POST {base}/predict.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	resp, err := c.post(ctx, "/predict", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeResult(resp.Body, c.validate)
}

// PredictBatch sends up to MaxBatchSize transactions in one POST {base}/predict/batch.
func (c *Client) PredictBatch(ctx context.Context, req models.BatchPredictionRequest) (*models.BatchPredictionResult, error) {
	if n := len(req.Transactions); n == 0 || n > models.MaxBatchSize {
		return nil, fmt.Errorf("batch size %d outside 1..%d", n, models.MaxBatchSize)
	}

	resp, err := c.post(ctx, "/predict/batch", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeBatch(resp.Body, c.validate)
}

// post sends payload as JSON and returns a 2xx response whose body the
// caller must close.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, transportError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// Health sends GET {health_url}.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return nil, transportError(err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var status models.HealthStatus
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&status); err != nil {
		return nil, malformed("%v", err)
	}
	return &status, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: string(snippet)}
}
