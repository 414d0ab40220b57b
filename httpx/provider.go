// Package httpx is the outbound HTTP layer shared by every provider client:
// rate limiting, retries with backoff, and a circuit breaker per provider.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// User-Agent strings used across provider clients.
const (
	UserAgentBot    = "YTVV/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Provider sends requests to one upstream service.
type Provider struct {
	name    string
	client  *http.Client
	browser *BrowserClient
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   RetryConfig
}

// Option customizes a Provider.
type Option func(*Provider)

// WithRate limits outbound requests to rps with the given burst.
func WithRate(rps float64, burst int) Option {
	return func(p *Provider) {
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides DefaultRetryConfig.
func WithRetry(rc RetryConfig) Option {
	return func(p *Provider) { p.retry = rc }
}

// WithBrowser routes requests through a Chrome-fingerprint client. nil is ignored.
func WithBrowser(bc *BrowserClient) Option {
	return func(p *Provider) {
		if bc != nil {
			p.browser = bc
		}
	}
}

// NewProvider builds a Provider named for logs and breaker state.
func NewProvider(name string, client *http.Client, opts ...Option) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	p := &Provider{
		name:    name,
		client:  client,
		limiter: rate.NewLimiter(rate.Inf, 1),
		retry:   DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// a missing video says nothing about provider health
			return err == nil || errors.Is(err, apperr.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("provider breaker state change",
				slog.String("provider", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// Get fetches url and returns the response body.
func (p *Provider) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return p.Do(ctx, http.MethodGet, url, headers, nil)
}

// GetJSON fetches url and decodes the JSON response into out.
func (p *Provider) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	data, err := p.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	return p.decode(data, out)
}

// PostJSON sends payload as JSON and decodes the JSON response into out.
func (p *Provider) PostJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", p.name, err)
	}
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	data, err := p.Do(ctx, http.MethodPost, url, h, body)
	if err != nil {
		return err
	}
	return p.decode(data, out)
}

func (p *Provider) decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		metrics.IncrProviderError()
		return fmt.Errorf("%w: %s: decode response: %w", apperr.ErrProviderUnavailable, p.name, err)
	}
	return nil
}

// Do sends one logical request. A 404 yields apperr.ErrNotFound; every other
// failure yields apperr.ErrProviderUnavailable unless the context ended first.
func (p *Provider) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) ([]byte, error) {
	metrics.IncrProviderCall()

	out, err := p.breaker.Execute(func() (any, error) {
		return RetryDo(ctx, p.retry, func() ([]byte, error) {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			data, status, err := p.send(ctx, method, url, headers, body)
			if err != nil {
				return nil, err
			}
			if status == http.StatusNotFound {
				return nil, fmt.Errorf("%s: %w", p.name, apperr.ErrNotFound)
			}
			if status < 200 || status > 299 {
				snippet := data
				if len(snippet) > 256 {
					snippet = snippet[:256]
				}
				return nil, &StatusError{StatusCode: status, Body: string(snippet)}
			}
			return data, nil
		})
	})
	if err == nil {
		return out.([]byte), nil
	}

	if errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", p.name, ctxErr)
	}
	metrics.IncrProviderError()
	slog.Debug("provider request failed",
		slog.String("provider", p.name),
		slog.String("url", url),
		slog.Any("error", err))
	return nil, fmt.Errorf("%w: %s: %w", apperr.ErrProviderUnavailable, p.name, err)
}

func (p *Provider) send(ctx context.Context, method, url string, headers map[string]string, body []byte) ([]byte, int, error) {
	if p.browser != nil {
		return p.browser.Do(ctx, method, url, headers, body)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	if _, ok := headers["User-Agent"]; !ok {
		req.Header.Set("User-Agent", UserAgentBot)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return data, resp.StatusCode, nil
}
