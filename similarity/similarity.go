// Package similarity scores how close two videos' title+description texts are.
package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/AlphaReposi/YTVV/models"
)

// Scorer returns a similarity in [0, 100] with two decimals.
type Scorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
	Name() string
}

// TextOf joins a video's title and description the way both scorers read them.
func TextOf(v models.VideoText) string {
	return strings.TrimSpace(v.Title + " " + v.Description)
}

// Compare scores two videos with s. Each video needs a title or a description.
func Compare(ctx context.Context, s Scorer, a, b models.VideoText) (float64, error) {
	metrics.IncrSimilarity()
	ta, tb := TextOf(a), TextOf(b)
	switch {
	case ta == "" && tb == "":
		return 0, fmt.Errorf("both videos have empty title and description: %w", apperr.ErrInvalidInput)
	case ta == "":
		return 0, fmt.Errorf("video1 has empty title and description: %w", apperr.ErrInvalidInput)
	case tb == "":
		return 0, fmt.Errorf("video2 has empty title and description: %w", apperr.ErrInvalidInput)
	}
	return s.Score(ctx, ta, tb)
}

// cosine returns the cosine similarity of two equal-length vectors, 0 when
// either is all zeros.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// toScore scales a cosine to [0, 100] rounded to two decimals.
func toScore(cos float64) float64 {
	s := math.Round(cos*100*100) / 100
	return math.Max(0, math.Min(100, s))
}
