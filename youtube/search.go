package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/metrics"
)

const ytSearchFilter = "EgIQAQ%3D%3D" // videos-only filter param

type ytDataSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Searcher finds videos by title. It uses the YouTube Data API v3 when an API
// key is configured and scrapes ytInitialData from the results page otherwise.
type Searcher struct {
	api       *httpx.Provider
	site      *httpx.Provider
	apiKey    string
	limit     int
	endpoints Endpoints
}

// NewSearcher builds a Searcher. api may be nil when apiKey is empty.
func NewSearcher(api, site *httpx.Provider, apiKey string, limit int, endpoints Endpoints) *Searcher {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return &Searcher{api: api, site: site, apiKey: apiKey, limit: limit, endpoints: endpoints}
}

// Search returns watch URLs for title in provider order.
func (s *Searcher) Search(ctx context.Context, title string) ([]string, error) {
	metrics.IncrSearch()
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput)
	}

	var (
		ids []string
		err error
	)
	if s.apiKey != "" && s.api != nil {
		ids, err = s.searchDataAPI(ctx, title)
	} else {
		ids, err = s.searchInitialData(ctx, title)
	}
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(ids))
	for _, id := range ids {
		urls = append(urls, WatchURL(id))
	}
	slog.Debug("youtube search", slog.String("title", title), slog.Int("results", len(urls)))
	return urls, nil
}

func (s *Searcher) searchDataAPI(ctx context.Context, title string) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", title)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(s.limit))
	params.Set("key", s.apiKey)

	var resp ytDataSearchResp
	if err := s.api.GetJSON(ctx, s.endpoints.DataAPI+"/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("youtube data API search: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// searchInitialData scrapes YouTube search results by parsing ytInitialData.
func (s *Searcher) searchInitialData(ctx context.Context, title string) ([]string, error) {
	searchURL := s.endpoints.Site + "/results?search_query=" + url.QueryEscape(title) + "&sp=" + ytSearchFilter
	body, err := s.site.Get(ctx, searchURL, pageHeaders())
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}

	doc, err := parsePage(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse youtube search page: %w", apperr.ErrProviderUnavailable, err)
	}
	raw := scriptJSON(doc, markerInitialData)
	if raw == nil {
		return nil, fmt.Errorf("%w: ytInitialData not found in youtube search page", apperr.ErrProviderUnavailable)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode ytInitialData: %w", apperr.ErrProviderUnavailable, err)
	}
	return videoIDsFromInitialData(data, s.limit), nil
}

// videoIDsFromInitialData walks ytInitialData for videoRenderer entries in document order.
func videoIDsFromInitialData(data any, limit int) []string {
	ids := []string{}
	var visit func(v any)
	visit = func(v any) {
		if len(ids) >= limit {
			return
		}
		switch t := v.(type) {
		case map[string]any:
			if vr, ok := t["videoRenderer"].(map[string]any); ok {
				if id, _ := vr["videoId"].(string); id != "" {
					ids = append(ids, id)
				}
				return
			}
			// result order lives in arrays; sorted keys only make object traversal stable
			for _, k := range sortedKeys(t) {
				visit(t[k])
			}
		case []any:
			for _, child := range t {
				visit(child)
			}
		}
	}
	visit(data)
	return ids
}
