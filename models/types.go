package models

import "time"

// Fallback values used when a provider omits a metadata field.
const (
	FallbackTitle       = "Title not found"
	FallbackDescription = "Description not found"
	FallbackThumbnail   = "Thumbnail not found"
	FallbackAuthor      = "Unknown"
	FallbackUploadDate  = "1970-01-01"
)

// VideoMetadata is the metadata and engagement counts of one video.
type VideoMetadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	UploadDate   string `json:"upload_date"`
	Author       string `json:"author"`
}

// ApplyFallbacks fills empty text fields with their placeholders.
func (m *VideoMetadata) ApplyFallbacks() {
	if m.Title == "" {
		m.Title = FallbackTitle
	}
	if m.Description == "" {
		m.Description = FallbackDescription
	}
	if m.ThumbnailURL == "" {
		m.ThumbnailURL = FallbackThumbnail
	}
	if m.Author == "" {
		m.Author = FallbackAuthor
	}
	if m.UploadDate == "" {
		m.UploadDate = FallbackUploadDate
	}
}

// Snapshot is a recorded metadata observation.
type Snapshot struct {
	ID         string        `json:"id"`
	VideoID    string        `json:"video_id"`
	Metadata   VideoMetadata `json:"metadata"`
	CapturedAt time.Time     `json:"captured_at"`
}

// SearchRequest is the body of /get-top-search-results/.
type SearchRequest struct {
	Title string `json:"title"`
}

// SearchResponse lists video watch URLs in provider order.
type SearchResponse struct {
	Results []string `json:"results"`
}

// MetadataRequest is the body of /get-video-metadata/.
type MetadataRequest struct {
	VideoURL string `json:"video_url"`
}

// TitlesRequest is the body of /generate-similar-titles/.
type TitlesRequest struct {
	Title string `json:"title"`
}

// TitlesResponse holds numbered title suggestions.
type TitlesResponse struct {
	GeneratedTitles []string `json:"generated_titles"`
}

// ThumbnailSearchRequest is the body of /reverse-thumbnail-search/.
type ThumbnailSearchRequest struct {
	ThumbnailURL string `json:"thumbnail_url"`
}

// FilterResponse is the body returned by /filter-youtube-results/.
type FilterResponse struct {
	YouTubeResults []ResultItem `json:"youtube_results"`
}

// VideoText is the part of a video the similarity score reads.
// Extra VideoMetadata fields in the request are ignored.
type VideoText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SimilarityRequest is the body of /compute-similarity/.
type SimilarityRequest struct {
	Video1 *VideoText `json:"video1"`
	Video2 *VideoText `json:"video2"`
}

// SimilarityResponse carries a score in [0, 100].
type SimilarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// SnapshotsResponse is the body returned by /video-snapshots/{videoID}.
type SnapshotsResponse struct {
	VideoID   string     `json:"video_id"`
	Snapshots []Snapshot `json:"snapshots"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
