package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/models"
)

type ytVideosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt  string                 `json:"publishedAt"`
			Title        string                 `json:"title"`
			Description  string                 `json:"description"`
			ChannelTitle string                 `json:"channelTitle"`
			Thumbnails   map[string]ytThumbnail `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type ytThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// thumbnailPreference lists Data API thumbnail keys from largest to smallest.
var thumbnailPreference = []string{"maxres", "standard", "high", "medium", "default"}

// DataAPIMetadata reads metadata from the YouTube Data API v3 videos endpoint.
type DataAPIMetadata struct {
	api     *httpx.Provider
	apiKey  string
	baseURL string
}

// NewDataAPIMetadata builds a DataAPIMetadata.
func NewDataAPIMetadata(api *httpx.Provider, apiKey string, endpoints Endpoints) *DataAPIMetadata {
	return &DataAPIMetadata{api: api, apiKey: apiKey, baseURL: endpoints.DataAPI}
}

// Lookup implements MetadataProvider.
func (d *DataAPIMetadata) Lookup(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)
	params.Set("key", d.apiKey)

	var resp ytVideosResp
	if err := d.api.GetJSON(ctx, d.baseURL+"/videos?"+params.Encode(), nil, &resp); err != nil {
		return models.VideoMetadata{}, fmt.Errorf("youtube data API videos: %w", err)
	}
	if len(resp.Items) == 0 {
		return models.VideoMetadata{}, fmt.Errorf("video %s: %w", videoID, apperr.ErrNotFound)
	}

	item := resp.Items[0]
	m := models.VideoMetadata{
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Author:      item.Snippet.ChannelTitle,
		Views:       parseInt(item.Statistics.ViewCount),
		Likes:       parseInt(item.Statistics.LikeCount),
		Comments:    parseInt(item.Statistics.CommentCount),
		UploadDate:  NormalizeUploadDate(item.Snippet.PublishedAt),
	}
	for _, k := range thumbnailPreference {
		if th, ok := item.Snippet.Thumbnails[k]; ok && th.URL != "" {
			m.ThumbnailURL = th.URL
			break
		}
	}
	return m, nil
}

// parseInt reads the decimal strings the Data API uses for counts.
// Hidden counts are absent and read as 0.
func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
