package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/models"
)

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		ShortDescription string `json:"shortDescription"`
		Author           string `json:"author"`
		ViewCount        string `json:"viewCount"`
		Thumbnail        struct {
			Thumbnails []ytThumbnail `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		Renderer struct {
			UploadDate       string `json:"uploadDate"`
			PublishDate      string `json:"publishDate"`
			OwnerChannelName string `json:"ownerChannelName"`
			LikeCount        string `json:"likeCount"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

type rydVotes struct {
	Likes     int64 `json:"likes"`
	ViewCount int64 `json:"viewCount"`
}

// WatchPageMetadata scrapes the watch page's embedded player response and
// takes like counts from the Return YouTube Dislike API. It needs no API key.
type WatchPageMetadata struct {
	site      *httpx.Provider
	votes     *httpx.Provider
	endpoints Endpoints
}

// NewWatchPageMetadata builds a WatchPageMetadata. votes may be nil to skip like counts.
func NewWatchPageMetadata(site, votes *httpx.Provider, endpoints Endpoints) *WatchPageMetadata {
	return &WatchPageMetadata{site: site, votes: votes, endpoints: endpoints}
}

// Lookup implements MetadataProvider.
func (w *WatchPageMetadata) Lookup(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	body, err := w.site.Get(ctx, w.endpoints.Site+"/watch?v="+url.QueryEscape(videoID)+"&hl=en", pageHeaders())
	if err != nil {
		return models.VideoMetadata{}, fmt.Errorf("youtube watch page: %w", err)
	}
	doc, err := parsePage(body)
	if err != nil {
		return models.VideoMetadata{}, fmt.Errorf("%w: parse watch page: %w", apperr.ErrProviderUnavailable, err)
	}

	raw := scriptJSON(doc, markerPlayerResponse)
	if raw == nil {
		return models.VideoMetadata{}, fmt.Errorf("%w: %s not found in watch page", apperr.ErrProviderUnavailable, markerPlayerResponse)
	}
	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return models.VideoMetadata{}, fmt.Errorf("%w: decode player response: %w", apperr.ErrProviderUnavailable, err)
	}
	if pr.VideoDetails == nil {
		return models.VideoMetadata{}, fmt.Errorf("video %s (%s %s): %w",
			videoID, pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason, apperr.ErrNotFound)
	}

	vd := pr.VideoDetails
	mf := pr.Microformat.Renderer
	m := models.VideoMetadata{
		Title:       vd.Title,
		Description: vd.ShortDescription,
		Author:      vd.Author,
		Views:       parseInt(vd.ViewCount),
		Likes:       parseInt(mf.LikeCount),
	}
	if m.Author == "" {
		m.Author = mf.OwnerChannelName
	}
	m.ThumbnailURL = widestThumbnail(vd.Thumbnail.Thumbnails)

	date := mf.UploadDate
	if date == "" {
		date = mf.PublishDate
	}
	m.UploadDate = NormalizeUploadDate(date)

	if initial := scriptJSON(doc, markerInitialData); initial != nil {
		var data any
		if err := json.Unmarshal(initial, &data); err == nil {
			m.Comments = commentCount(data)
		}
	}

	if w.votes != nil {
		w.applyVotes(ctx, videoID, &m)
	}
	return m, nil
}

// applyVotes fills likes (and views when the page had none). Failures leave
// the counts as they are.
func (w *WatchPageMetadata) applyVotes(ctx context.Context, videoID string, m *models.VideoMetadata) {
	var votes rydVotes
	err := w.votes.GetJSON(ctx, w.endpoints.Dislike+"/votes?videoId="+url.QueryEscape(videoID), nil, &votes)
	if err != nil {
		slog.Debug("like count lookup failed", slog.String("video_id", videoID), slog.Any("error", err))
		return
	}
	if votes.Likes > 0 {
		m.Likes = votes.Likes
	}
	if m.Views == 0 {
		m.Views = votes.ViewCount
	}
}

func widestThumbnail(thumbs []ytThumbnail) string {
	best := ""
	bestWidth := -1
	for _, th := range thumbs {
		if th.URL != "" && th.Width > bestWidth {
			best, bestWidth = th.URL, th.Width
		}
	}
	return best
}

// commentCount reads the comment total from ytInitialData: either a
// commentCount text field or the comments engagement panel header.
func commentCount(data any) int64 {
	var n int64
	walkJSON(data, func(obj map[string]any) bool {
		if v, ok := obj["commentCount"]; ok {
			if c := parseCount(textOf(v)); c > 0 {
				n = c
				return false
			}
		}
		if obj["panelIdentifier"] == commentsPanelID {
			info := dig(obj, "header", "engagementPanelTitleHeaderRenderer", "contextualInfo")
			if c := parseCount(textOf(info)); c > 0 {
				n = c
				return false
			}
		}
		return true
	})
	return n
}
