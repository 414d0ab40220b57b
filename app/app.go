// Package app builds the service graph from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AlphaReposi/YTVV/api"
	"github.com/AlphaReposi/YTVV/cache"
	"github.com/AlphaReposi/YTVV/config"
	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/lens"
	"github.com/AlphaReposi/YTVV/rephrase"
	"github.com/AlphaReposi/YTVV/similarity"
	"github.com/AlphaReposi/YTVV/storage"
	"github.com/AlphaReposi/YTVV/youtube"
	"github.com/redis/go-redis/v9"
)

// App owns every long-lived client. Close releases them.
type App struct {
	Config     config.Config
	Searcher   *youtube.Searcher
	Metadata   *youtube.MetadataService
	Titles     *rephrase.Client
	Thumbnails *lens.Client
	Scorer     similarity.Scorer
	Store      *storage.PostgresStore

	cache *cache.Cache
	redis *redis.Client
}

// New connects optional backends and wires the services. A missing
// DATABASE_URL or REDIS_URL disables the store or the L2 cache.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unavailable, using memory cache only", slog.Any("error", err))
	}
	a.redis = rdb
	a.cache = cache.New(rdb, cfg.CacheTTL, cfg.CacheMaxEntries)

	var recorder youtube.SnapshotRecorder
	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			a.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.Store = store
		recorder = store
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	opts := []httpx.Option{httpx.WithRate(cfg.ProviderRPS, 2)}

	siteOpts := append([]httpx.Option{}, opts...)
	if cfg.BrowserFetch {
		bc, err := httpx.NewBrowserClient(int(cfg.HTTPTimeout / time.Second))
		if err != nil {
			slog.Warn("browser client unavailable, using plain HTTP", slog.Any("error", err))
		} else {
			siteOpts = append(siteOpts, httpx.WithBrowser(bc))
		}
	}

	dataAPI := httpx.NewProvider("youtube-data-api", client, opts...)
	site := httpx.NewProvider("youtube", client, siteOpts...)
	votes := httpx.NewProvider("ryd", client, opts...)
	ginger := httpx.NewProvider("ginger", client, opts...)
	serper := httpx.NewProvider("serper", client, opts...)

	var lookup youtube.MetadataProvider
	if cfg.YouTubeAPIKey != "" {
		lookup = youtube.NewDataAPIMetadata(dataAPI, cfg.YouTubeAPIKey, youtube.DefaultEndpoints)
	} else {
		lookup = youtube.NewWatchPageMetadata(site, votes, youtube.DefaultEndpoints)
	}

	a.Searcher = youtube.NewSearcher(dataAPI, site, cfg.YouTubeAPIKey, cfg.SearchLimit, youtube.DefaultEndpoints)
	a.Metadata = youtube.NewMetadataService(lookup, a.cache, recorder)
	a.Titles = rephrase.New(ginger, rephrase.DefaultEndpoint, cfg.RephraseMax)
	a.Thumbnails = lens.New(serper, lens.DefaultEndpoint, cfg.SerperAPIKey, a.Metadata, cfg.EnrichConcurrency)
	a.Scorer = newScorer(cfg)

	slog.Info("services ready",
		slog.String("metadata", providerName(cfg)),
		slog.String("scorer", a.Scorer.Name()),
		slog.Bool("snapshots", a.Store != nil),
		slog.Bool("redis", a.redis != nil),
	)
	return a, nil
}

func newScorer(cfg config.Config) similarity.Scorer {
	if cfg.EmbeddingAPIKey == "" {
		return similarity.LexicalScorer{}
	}
	s, err := similarity.NewEmbeddingScorer(similarity.EmbeddingConfig{
		APIKey:  cfg.EmbeddingAPIKey,
		BaseURL: cfg.EmbeddingBaseURL,
		Model:   cfg.EmbeddingModel,
	})
	if err != nil {
		slog.Warn("embedding scorer unavailable, using lexical", slog.Any("error", err))
		return similarity.LexicalScorer{}
	}
	return s
}

func providerName(cfg config.Config) string {
	if cfg.YouTubeAPIKey != "" {
		return "data-api"
	}
	return "watch-page"
}

// Handler returns the HTTP router for the service.
func (a *App) Handler() http.Handler {
	svc := api.Services{
		Search:     a.Searcher,
		Metadata:   a.Metadata,
		Titles:     a.Titles,
		Thumbnails: a.Thumbnails,
		Scorer:     a.Scorer,
	}
	if a.Store != nil {
		svc.Snapshots = a.Store
	}
	return api.NewRouter(api.NewHandler(svc), a.Config.CORSOrigins)
}

// Close waits for pending snapshot writes and releases connections.
func (a *App) Close() {
	if a.Metadata != nil {
		a.Metadata.Wait()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			slog.Warn("cache close failed", slog.Any("error", err))
		}
	}
}
