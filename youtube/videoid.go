package youtube

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
)

var (
	videoIDRE = regexp.MustCompile(`(?:^|//|\.)(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/|v/)|youtu\.be/)([a-zA-Z0-9_-]{11})(?:[?&#/]|$)`)
	bareIDRE  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-char video ID of a YouTube URL, or the input
// itself when it already is a bare ID.
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("video_url is required: %w", apperr.ErrInvalidInput)
	}
	if bareIDRE.MatchString(input) {
		return input, nil
	}
	if m := videoIDRE.FindStringSubmatch(input); len(m) >= 2 {
		return m[1], nil
	}
	return "", fmt.Errorf("no YouTube video ID in %q: %w", input, apperr.ErrInvalidInput)
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
