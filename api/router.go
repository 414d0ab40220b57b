package api

import (
	"net/http"

	"github.com/AlphaReposi/YTVV/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts every route on a chi router. Each POST route answers with
// and without its trailing slash.
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	post := func(path string, fn http.HandlerFunc) {
		r.Post(path, fn)
		r.Post(path+"/", fn)
	}
	post("/get-top-search-results", h.Search)
	post("/get-video-metadata", h.Metadata)
	post("/generate-similar-titles", h.Titles)
	post("/reverse-thumbnail-search", h.ReverseThumbnail)
	post("/filter-youtube-results", h.Filter)
	post("/compute-similarity", h.Similarity)

	r.Get("/video-snapshots/{videoID}", h.Snapshots)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(metrics.Format()))
	})
	return r
}
