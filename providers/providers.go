// Package providers implements the gateway to external data services:
// OpenWeather (geocoding + current weather), apilayer (currency conversion)
// and thecatapi/thedogapi (random animal images).
//
// Every call makes exactly one attempt, bounded by the configured timeout;
// retries are a caller policy, not a gateway one.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"funbot/core/logger"
)

// ErrNotFound reports that the requested entity does not exist upstream
// (e.g. an unknown city). Everything else is a transient failure.
var ErrNotFound = errors.New("providers: not found")

const (
	defaultTimeout = 10 * time.Second

	// maxImageBytes caps animal image downloads.
	maxImageBytes = 10 << 20
)

// Config carries credentials and limits for the gateway.
type Config struct {
	WeatherAPIKey  string
	ExchangeAPIKey string
	// Timeout bounds every single provider call; 0 -> 10s.
	Timeout time.Duration
}

// Client is the concrete provider gateway.
type Client struct {
	http    *http.Client
	timeout time.Duration

	weatherKey  string
	exchangeKey string

	geoURL      string
	weatherURL  string
	exchangeURL string
	catURL      string
	dogURL      string
}

// New builds a gateway client with production endpoints.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		timeout:     timeout,
		weatherKey:  cfg.WeatherAPIKey,
		exchangeKey: cfg.ExchangeAPIKey,
		geoURL:      "http://api.openweathermap.org/geo/1.0/direct",
		weatherURL:  "https://api.openweathermap.org/data/2.5/weather",
		exchangeURL: "https://api.apilayer.com/exchangerates_data/convert",
		catURL:      "https://api.thecatapi.com/v1/images/search",
		dogURL:      "https://api.thedogapi.com/v1/images/search",
	}
}

// getJSON performs one GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, provider, url string, header http.Header, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", provider, err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "provider", "request.failed",
			slog.String("provider", provider),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("%s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.Error(ctx, "provider", "request.failed",
			slog.String("provider", provider),
			slog.Int("http_code", resp.StatusCode),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("%s: unexpected status %s", provider, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	logger.Debug(ctx, "provider", "request.done",
		slog.String("provider", provider),
		slog.String("status", "ok"),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// getBytes performs one GET and returns the raw body, size-capped.
func (c *Client) getBytes(ctx context.Context, provider, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: unexpected status %s", provider, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", provider, err)
	}
	return data, nil
}
