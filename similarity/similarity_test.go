package similarity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextOf(t *testing.T) {
	assert.Equal(t, "Go tutorial learn go", TextOf(models.VideoText{Title: "Go tutorial", Description: "learn go"}))
	assert.Equal(t, "only title", TextOf(models.VideoText{Title: "only title"}))
	assert.Equal(t, "", TextOf(models.VideoText{}))
}

func TestToScore(t *testing.T) {
	assert.Equal(t, 100.0, toScore(1))
	assert.Equal(t, 0.0, toScore(-0.4))
	assert.Equal(t, 12.35, toScore(0.123456))
	assert.Equal(t, 100.0, toScore(1.0000001))
}

func TestLexicalScorer(t *testing.T) {
	ctx := context.Background()
	s := LexicalScorer{}

	same, err := s.Score(ctx, "Learn Go in ten minutes", "learn go in TEN minutes!")
	require.NoError(t, err)
	assert.Equal(t, 100.0, same)

	none, err := s.Score(ctx, "cooking pasta carbonara", "rocket engine telemetry")
	require.NoError(t, err)
	assert.Equal(t, 0.0, none)

	partial, err := s.Score(ctx, "golang concurrency patterns", "golang generics patterns")
	require.NoError(t, err)
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 100.0)

	oneEmpty, err := s.Score(ctx, "", "something")
	require.NoError(t, err)
	assert.Equal(t, 0.0, oneEmpty)
}

func TestCompare_EmptyText(t *testing.T) {
	ctx := context.Background()
	full := models.VideoText{Title: "learn go", Description: "fast"}

	_, err := Compare(ctx, LexicalScorer{}, models.VideoText{}, models.VideoText{Title: "  "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = Compare(ctx, LexicalScorer{}, models.VideoText{}, full)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "video1")

	_, err = Compare(ctx, LexicalScorer{}, full, models.VideoText{Description: " "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "video2")
}

func TestCompare_EmptyTextNeverReachesEmbeddings(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// OpenAI rejects empty strings in input
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"'$.input' is invalid"}}`))
	}))
	defer srv.Close()

	s, err := NewEmbeddingScorer(EmbeddingConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "test-model"})
	require.NoError(t, err)

	_, err = Compare(context.Background(), s, models.VideoText{}, models.VideoText{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.NotErrorIs(t, err, apperr.ErrProviderUnavailable)
	assert.Zero(t, calls.Load())
}

func embeddingServer(t *testing.T, vectors map[string][]float32, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		data := make([]map[string]any, 0, len(req.Input))
		// reversed to check vectors are matched by index, not position
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": vectors[req.Input[i]],
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
}

func TestEmbeddingScorer(t *testing.T) {
	srv := embeddingServer(t, map[string][]float32{
		"a": {1, 0, 0},
		"b": {1, 1, 0},
		"c": {0, 0, 1},
	}, http.StatusOK)
	defer srv.Close()

	s, err := NewEmbeddingScorer(EmbeddingConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "test-model"})
	require.NoError(t, err)
	assert.Equal(t, "embedding:test-model", s.Name())

	ctx := context.Background()
	got, err := s.Score(ctx, "a", "a")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	got, err = s.Score(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 70.71, got)

	got, err = s.Score(ctx, "a", "c")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEmbeddingScorer_Errors(t *testing.T) {
	_, err := NewEmbeddingScorer(EmbeddingConfig{})
	assert.ErrorIs(t, err, apperr.ErrNotConfigured)

	srv := embeddingServer(t, nil, http.StatusInternalServerError)
	defer srv.Close()

	s, err := NewEmbeddingScorer(EmbeddingConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "test-model"})
	require.NoError(t, err)
	_, err = s.Score(context.Background(), "a", "b")
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}
