package similarity

import (
	"context"
	"fmt"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/sashabaranov/go-openai"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// EmbeddingConfig holds embedding endpoint configuration. BaseURL may point
// at any OpenAI-compatible server, including a locally hosted model.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// EmbeddingScorer embeds both texts in one request and compares them by cosine.
type EmbeddingScorer struct {
	client *openai.Client
	model  string
}

// NewEmbeddingScorer creates an EmbeddingScorer.
func NewEmbeddingScorer(cfg EmbeddingConfig) (*EmbeddingScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key: %w", apperr.ErrNotConfigured)
	}
	model := cfg.Model
	if model == "" {
		model = defaultEmbeddingModel
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &EmbeddingScorer{client: openai.NewClientWithConfig(config), model: model}, nil
}

// Name implements Scorer.
func (s *EmbeddingScorer) Name() string { return "embedding:" + s.model }

// Score implements Scorer.
func (s *EmbeddingScorer) Score(ctx context.Context, a, b string) (float64, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: []string{a, b},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: embeddings: %w", apperr.ErrProviderUnavailable, err)
	}
	if len(resp.Data) != 2 {
		return 0, fmt.Errorf("%w: embeddings: got %d vectors, want 2", apperr.ErrProviderUnavailable, len(resp.Data))
	}

	vecs := make([][]float64, 2)
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index > 1 {
			return 0, fmt.Errorf("%w: embeddings: unexpected index %d", apperr.ErrProviderUnavailable, d.Index)
		}
		v := make([]float64, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float64(x)
		}
		vecs[d.Index] = v
	}
	if vecs[0] == nil || vecs[1] == nil || len(vecs[0]) != len(vecs[1]) {
		return 0, fmt.Errorf("%w: embeddings: mismatched vectors", apperr.ErrProviderUnavailable)
	}
	return toScore(cosine(vecs[0], vecs[1])), nil
}
