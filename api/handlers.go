package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AlphaReposi/YTVV/apperr"
	"github.com/AlphaReposi/YTVV/models"
	"github.com/AlphaReposi/YTVV/similarity"
	"github.com/AlphaReposi/YTVV/youtube"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type VideoSearcher interface {
	Search(ctx context.Context, title string) ([]string, error)
}

type MetadataFetcher interface {
	Fetch(ctx context.Context, videoURL string) (models.VideoMetadata, error)
}

type TitleGenerator interface {
	Generate(ctx context.Context, title string) ([]string, error)
}

type ThumbnailSearcher interface {
	Search(ctx context.Context, thumbnailURL string) ([]models.ResultItem, error)
}

type SnapshotLister interface {
	ListSnapshots(ctx context.Context, videoID string, limit int) ([]models.Snapshot, error)
}

// Services groups the backends a Handler dispatches to. Snapshots may be nil.
type Services struct {
	Search     VideoSearcher
	Metadata   MetadataFetcher
	Titles     TitleGenerator
	Thumbnails ThumbnailSearcher
	Scorer     similarity.Scorer
	Snapshots  SnapshotLister
}

type Handler struct {
	svc Services
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput))
		return
	}

	results, err := h.svc.Search.Search(r.Context(), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []string{}
	}
	writeJSON(w, http.StatusOK, models.SearchResponse{Results: results})
}

func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	var req models.MetadataRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		writeError(w, fmt.Errorf("video_url is required: %w", apperr.ErrInvalidInput))
		return
	}

	m, err := h.svc.Metadata.Fetch(r.Context(), req.VideoURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	var req models.TitlesRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput))
		return
	}

	titles, err := h.svc.Titles.Generate(r.Context(), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, models.TitlesResponse{GeneratedTitles: titles})
}

// ReverseThumbnail responds with a bare JSON array of enriched results.
func (h *Handler) ReverseThumbnail(w http.ResponseWriter, r *http.Request) {
	var req models.ThumbnailSearchRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ThumbnailURL) == "" {
		writeError(w, fmt.Errorf("thumbnail_url is required: %w", apperr.ErrInvalidInput))
		return
	}

	items, err := h.svc.Thumbnails.Search(r.Context(), req.ThumbnailURL)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.ResultItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	var items []models.ResultItem
	if !decode(w, r, &items) {
		return
	}
	if items == nil {
		writeError(w, fmt.Errorf("body must be a JSON array of result objects: %w", apperr.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, models.FilterResponse{YouTubeResults: models.FilterYouTube(items)})
}

func (h *Handler) Similarity(w http.ResponseWriter, r *http.Request) {
	var req models.SimilarityRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Video1 == nil || req.Video2 == nil {
		writeError(w, fmt.Errorf("video1 and video2 are required: %w", apperr.ErrInvalidInput))
		return
	}

	score, err := similarity.Compare(r.Context(), h.svc.Scorer, *req.Video1, *req.Video2)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SimilarityResponse{Similarity: score})
}

func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	if h.svc.Snapshots == nil {
		writeError(w, fmt.Errorf("snapshot store: %w", apperr.ErrNotConfigured))
		return
	}
	id, err := youtube.ExtractVideoID(chi.URLParam(r, "videoID"))
	if err != nil {
		writeError(w, err)
		return
	}

	snaps, err := h.svc.Snapshots.ListSnapshots(r.Context(), id, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if snaps == nil {
		snaps = []models.Snapshot{}
	}
	writeJSON(w, http.StatusOK, models.SnapshotsResponse{VideoID: id, Snapshots: snaps})
}

// decode reads a JSON body into v, writing a 400 and returning false on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		msg := "invalid request body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is empty"
		case errors.As(err, &maxErr):
			msg = "request body too large"
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	}
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}
