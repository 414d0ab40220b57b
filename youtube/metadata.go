package youtube

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AlphaReposi/YTVV/cache"
	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/AlphaReposi/YTVV/models"
	"github.com/google/uuid"
)

// MetadataProvider looks up one video by its 11-char ID.
type MetadataProvider interface {
	Lookup(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// SnapshotRecorder persists metadata observations.
type SnapshotRecorder interface {
	SaveSnapshot(ctx context.Context, s models.Snapshot) error
}

// MetadataService resolves video URLs, caches lookups and records snapshots.
type MetadataService struct {
	provider MetadataProvider
	cache    *cache.Cache
	recorder SnapshotRecorder
	wg       sync.WaitGroup
}

// NewMetadataService wires a provider with an optional cache and recorder.
func NewMetadataService(p MetadataProvider, c *cache.Cache, r SnapshotRecorder) *MetadataService {
	return &MetadataService{provider: p, cache: c, recorder: r}
}

// Fetch returns metadata for a video URL or bare video ID. Errors wrap
// apperr.ErrInvalidInput, apperr.ErrNotFound or apperr.ErrProviderUnavailable.
func (s *MetadataService) Fetch(ctx context.Context, videoURL string) (models.VideoMetadata, error) {
	metrics.IncrMetadata()
	id, err := ExtractVideoID(videoURL)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	key := cache.Key("meta", id)
	if m, ok := cache.LoadJSON[models.VideoMetadata](ctx, s.cache, key); ok {
		return m, nil
	}

	m, err := s.provider.Lookup(ctx, id)
	if err != nil {
		metrics.IncrMetadataError()
		slog.Warn("metadata lookup failed", slog.String("video_id", id), slog.Any("error", err))
		return models.VideoMetadata{}, err
	}
	m.URL = WatchURL(id)
	m.ApplyFallbacks()

	cache.StoreJSON(ctx, s.cache, key, m)
	s.record(id, m)
	return m, nil
}

// record saves a snapshot in the background so storage latency never reaches the caller.
func (s *MetadataService) record(id string, m models.VideoMetadata) {
	if s.recorder == nil {
		return
	}
	snap := models.Snapshot{
		ID:         uuid.NewString(),
		VideoID:    id,
		Metadata:   m,
		CapturedAt: time.Now().UTC(),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.recorder.SaveSnapshot(ctx, snap); err != nil {
			metrics.IncrSnapshotError()
			slog.Warn("snapshot save failed", slog.String("video_id", id), slog.Any("error", err))
			return
		}
		metrics.IncrSnapshotWritten()
	}()
}

// Wait blocks until pending snapshot writes finish.
func (s *MetadataService) Wait() {
	s.wg.Wait()
}
