// Package lens reverse-searches a thumbnail image with Serper's Google Lens
// endpoint and enriches the YouTube hits with engagement counts.
package lens

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/AlphaReposi/YTVV/models"
	"golang.org/x/sync/errgroup"
)

// DefaultEndpoint is Serper's Lens endpoint.
const DefaultEndpoint = "https://google.serper.dev/lens"

// MetadataFetcher looks up metadata for a video URL.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoURL string) (models.VideoMetadata, error)
}

type lensResp struct {
	Organic []models.ResultItem `json:"organic"`
}

// Client runs reverse thumbnail searches.
type Client struct {
	provider    *httpx.Provider
	endpoint    string
	apiKey      string
	metadata    MetadataFetcher
	concurrency int
}

// New builds a Client. An empty apiKey makes every search fail with apperr.ErrNotConfigured.
func New(provider *httpx.Provider, endpoint, apiKey string, metadata MetadataFetcher, concurrency int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Client{provider: provider, endpoint: endpoint, apiKey: apiKey, metadata: metadata, concurrency: concurrency}
}

// Search returns the YouTube results for thumbnailURL in provider order, each
// with views, likes and comments when its metadata could be fetched.
func (c *Client) Search(ctx context.Context, thumbnailURL string) ([]models.ResultItem, error) {
	metrics.IncrLens()
	thumbnailURL = strings.TrimSpace(thumbnailURL)
	if err := validateImageURL(thumbnailURL); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("reverse thumbnail search needs API_KEY: %w", apperr.ErrNotConfigured)
	}

	var resp lensResp
	headers := map[string]string{"X-API-KEY": c.apiKey}
	if err := c.provider.PostJSON(ctx, c.endpoint, headers, map[string]string{"url": thumbnailURL}, &resp); err != nil {
		return nil, fmt.Errorf("lens search: %w", err)
	}

	results := models.FilterYouTube(resp.Organic)
	c.enrich(ctx, results)
	return results, nil
}

// enrich adds engagement counts in place. Each goroutine owns one item, so
// no locking is needed and order is kept.
func (c *Client) enrich(ctx context.Context, items []models.ResultItem) {
	if c.metadata == nil {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, item := range items {
		link := item.Link()
		if link == "" {
			continue
		}
		g.Go(func() error {
			m, err := c.metadata.Fetch(gctx, link)
			if err != nil {
				slog.Info("lens: engagement unavailable", slog.String("link", link), slog.Any("error", err))
				return nil
			}
			item.SetEngagement(m)
			return nil
		})
	}
	_ = g.Wait()
}

func validateImageURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("thumbnail_url is required: %w", apperr.ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("thumbnail_url must be an absolute http(s) URL: %w", apperr.ErrInvalidInput)
	}
	return nil
}
