// Package transport provides SaveFunc implementations for the order writer:
// the remote task API over HTTP, a Redis hash store, and the local task
// repository.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/voxplan/voxplan/internal/ordering"
)

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// BaseURL is the task API root, e.g. https://api.example.com.
	BaseURL string
	// Timeout bounds each request. The writer treats a timeout like any
	// other failure.
	Timeout time.Duration
	// FailureThreshold is how many consecutive failures trip the breaker.
	FailureThreshold uint32
	// BreakerTimeout is the period of the open state.
	BreakerTimeout time.Duration
}

// DefaultHTTPConfig returns sensible defaults.
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:          baseURL,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// HTTPTransport posts reorder batches to the remote task API, protected by a
// circuit breaker so a struggling backend is not hammered by retries.
type HTTPTransport struct {
	config  HTTPConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[ordering.SaveResult]
	logger  *slog.Logger
}

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport(config HTTPConfig, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "order-save",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPTransport{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		breaker: gobreaker.NewCircuitBreaker[ordering.SaveResult](settings),
		logger:  logger,
	}
}

// Save implements ordering.SaveFunc.
func (t *HTTPTransport) Save(ctx context.Context, payload ordering.Payload) (ordering.SaveResult, error) {
	return t.breaker.Execute(func() (ordering.SaveResult, error) {
		return t.post(ctx, payload)
	})
}

func (t *HTTPTransport) post(ctx context.Context, payload ordering.Payload) (ordering.SaveResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ordering.SaveResult{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	url := t.config.BaseURL + "/tasks/reorder"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ordering.SaveResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return ordering.SaveResult{}, fmt.Errorf("reorder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return ordering.SaveResult{}, fmt.Errorf("reorder request returned status %d", resp.StatusCode)
	}

	var result ordering.SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ordering.SaveResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	t.logger.Debug("reorder batch accepted",
		"context", payload.Context,
		"updated_count", result.UpdatedCount,
	)
	return result, nil
}
