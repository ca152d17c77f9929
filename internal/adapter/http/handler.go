package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/bnema/vidshelf/internal/adapter/http/middleware"
	"github.com/bnema/vidshelf/internal/adapter/http/templates"
	"github.com/bnema/vidshelf/internal/adapter/http/validation"
	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/infrastructure/logger"
)

// maxRatingBodyBytes bounds the JSON body of a rating request.
const maxRatingBodyBytes = 4 << 10

type CatalogService interface {
	List(ctx context.Context) []domain.Video
}

type RatingService interface {
	Get(ctx context.Context, videoID string) (*domain.VideoRating, error)
	Rate(ctx context.Context, videoID, action string) (*domain.VideoRating, error)
}

// VideoFiles opens files from the local videos directory by bare name.
type VideoFiles interface {
	Open(name string) (*os.File, os.FileInfo, error)
}

type Handlers struct {
	catalog CatalogService
	ratings RatingService
	files   VideoFiles
}

func NewHandlers(catalog CatalogService, ratings RatingService, files VideoFiles) *Handlers {
	return &Handlers{
		catalog: catalog,
		ratings: ratings,
		files:   files,
	}
}

type rateRequest struct {
	VideoID string `json:"videoId"`
	Action  string `json:"action"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequestError(r *http.Request, msg string, err error) {
	logger.Error.Printf("[%s] %s %s: %s: %v", middleware.RequestIDFromContext(r.Context()),
		r.Method, logger.SanitizeForLog(r.URL.Path), msg, err)
}

func (h *Handlers) ListVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]domain.Video{"videos": h.catalog.List(r.Context())})
	}
}

func (h *Handlers) GetRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.URL.Query().Get("videoId")
		if videoID == "" {
			writeError(w, http.StatusBadRequest, "Video ID is required")
			return
		}

		rating, err := h.ratings.Get(r.Context(), videoID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidID) {
				writeError(w, http.StatusBadRequest, "Invalid video ID")
				return
			}
			logRequestError(r, "fetch rating", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch video ratings")
			return
		}
		writeJSON(w, http.StatusOK, rating)
	}
}

func (h *Handlers) Rate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRatingBodyBytes)

		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.VideoID == "" || req.Action == "" {
			writeError(w, http.StatusBadRequest, "Video ID and action are required")
			return
		}

		rating, err := h.ratings.Rate(r.Context(), req.VideoID, req.Action)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, rating)
		case errors.Is(err, domain.ErrInvalidAction):
			writeError(w, http.StatusBadRequest, `Action must be either "like" or "dislike"`)
		case errors.Is(err, domain.ErrInvalidID):
			writeError(w, http.StatusBadRequest, "Invalid video ID")
		default:
			logRequestError(r, "apply rating", err)
			writeError(w, http.StatusInternalServerError, "Failed to update video ratings")
		}
	}
}

// ServeVideo streams a file from the local videos directory. Range requests
// are handled by http.ServeContent.
func (h *Handlers) ServeVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if !validation.SafeVideoName(name) {
			http.NotFound(w, r)
			return
		}

		f, info, err := h.files.Open(name)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logRequestError(r, "open video", err)
			}
			http.NotFound(w, r)
			return
		}
		defer f.Close() //nolint:errcheck

		mime, ok, err := validation.DetectVideoType(f)
		if err != nil {
			logRequestError(r, "sniff video", err)
			http.Error(w, "Failed to read video", http.StatusInternalServerError)
			return
		}
		if !ok {
			logger.Warn.Printf("refusing to serve %s: detected %s", logger.SanitizeForLog(name), mime)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Content-Disposition", validation.ContentDisposition(name, true))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

func (h *Handlers) ListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos := h.catalog.List(r.Context())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.VideoList(videos).Render(r.Context(), w)
	}
}

// WatchPage plays the video named by ?v=, falling back to the first listed
// video when the ID is missing or unknown.
func (h *Handlers) WatchPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos := h.catalog.List(r.Context())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if len(videos) == 0 {
			w.WriteHeader(http.StatusNotFound)
			_ = templates.ErrorPage("404", "No videos available").Render(r.Context(), w)
			return
		}

		current := videos[0]
		if id := r.URL.Query().Get("v"); id != "" {
			for _, v := range videos {
				if v.ID == id {
					current = v
					break
				}
			}
		}

		_ = templates.Watch(current, videos).Render(r.Context(), w)
	}
}
