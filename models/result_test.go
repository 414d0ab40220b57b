package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterYouTubePreservesOrder(t *testing.T) {
	var items []ResultItem
	raw := `[
		{"title": "a", "source": "YouTube", "link": "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{"title": "b", "source": "Vimeo"},
		{"title": "c", "source": "youtube"},
		{"title": "d"},
		{"title": "e", "source": 7},
		{"title": "f", "source": "YouTube", "position": 6}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	got := FilterYouTube(items)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["title"])
	assert.Equal(t, "f", got[1]["title"])
	assert.EqualValues(t, 6, got[1]["position"], "provider fields are kept")
}

func TestFilterYouTubeEmpty(t *testing.T) {
	got := FilterYouTube(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSetEngagement(t *testing.T) {
	item := ResultItem{"source": SourceYouTube}
	item.SetEngagement(VideoMetadata{Views: 10, Likes: 2, Comments: 1})
	assert.EqualValues(t, 10, item["views"])
	assert.EqualValues(t, 2, item["likes"])
	assert.EqualValues(t, 1, item["comments"])
}

func TestApplyFallbacks(t *testing.T) {
	m := VideoMetadata{Title: "Kept"}
	m.ApplyFallbacks()
	assert.Equal(t, "Kept", m.Title)
	assert.Equal(t, FallbackDescription, m.Description)
	assert.Equal(t, FallbackThumbnail, m.ThumbnailURL)
	assert.Equal(t, FallbackAuthor, m.Author)
	assert.Equal(t, FallbackUploadDate, m.UploadDate)
}
