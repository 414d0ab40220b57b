package youtube

import (
	"testing"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch extra params", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"shorts", "https://youtube.com/shorts/aqz-KE-bpKQ", "aqz-KE-bpKQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"live", "https://www.youtube.com/live/jfKfPfyJRdk", "jfKfPfyJRdk"},
		{"fragment", "https://www.youtube.com/watch?v=dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed trailing slash", "https://www.youtube.com/embed/dQw4w9WgXcQ/", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"padded bare id", "  dQw4w9WgXcQ\n", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoIDRejects(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"https://vimeo.com/12345",
		"short",
		"https://www.youtube.com/watch?v=tooShort",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQEXTRA",
		"https://youtu.be/dQw4w9WgXcQEXTRA",
		"https://notyoutube.com/watch?v=dQw4w9WgXcQ",
		"https://evil-youtu.be/dQw4w9WgXcQ",
	} {
		_, err := ExtractVideoID(input)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "input %q", input)
	}
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
}
