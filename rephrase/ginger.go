// Package rephrase generates title variants with the Ginger rephrase service.
package rephrase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/metrics"
)

// DefaultEndpoint is the public Ginger rephrase endpoint.
const DefaultEndpoint = "https://rephrasesrv.gingersoftware.com/Rephrase/secured/rephrase"

// Fixed request parameters the public web client sends.
const (
	gingerAPIKey        = "GingerWebsite"
	gingerClientVersion = "2.0"
	gingerLang          = "en"
	gingerSize          = 8
)

type gingerResp struct {
	Sentences []struct {
		Sentence string `json:"Sentence"`
	} `json:"Sentences"`
}

// Client calls the rephrase service.
type Client struct {
	provider *httpx.Provider
	endpoint string
	max      int
}

// New builds a Client returning at most maxSuggestions suggestions.
func New(provider *httpx.Provider, endpoint string, maxSuggestions int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if maxSuggestions <= 0 {
		maxSuggestions = gingerSize
	}
	return &Client{provider: provider, endpoint: endpoint, max: maxSuggestions}
}

// Generate returns numbered rephrasings of title ("1. ...", "2. ...").
func (c *Client) Generate(ctx context.Context, title string) ([]string, error) {
	metrics.IncrRephrase()
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("apiKey", gingerAPIKey)
	params.Set("clientVersion", gingerClientVersion)
	params.Set("lang", gingerLang)
	params.Set("s", title)
	params.Set("size", strconv.Itoa(gingerSize))

	var resp gingerResp
	if err := c.provider.GetJSON(ctx, c.endpoint+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("rephrase: %w", err)
	}

	out := make([]string, 0, min(len(resp.Sentences), c.max))
	for _, s := range resp.Sentences {
		if len(out) == c.max {
			break
		}
		sentence := strings.TrimSpace(s.Sentence)
		if sentence == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%d. %s", len(out)+1, sentence))
	}
	return out, nil
}
