package http

import (
	"net/http"
	"time"

	"github.com/bnema/vidshelf/internal/adapter/http/middleware"
	"github.com/bnema/vidshelf/internal/adapter/http/ratelimit"
)

type Options struct {
	// RateLimitPerMinute caps rating requests per client IP.
	RateLimitPerMinute int
	// BehindProxy trusts X-Forwarded-For when identifying clients.
	BehindProxy        bool
	// CSRFSecret enables double-submit protection on the rating API.
	CSRFSecret         string
	// MediaSources are extra origins allowed to serve <video> content.
	MediaSources       []string
}

type Server struct {
	mux         *http.ServeMux
	handlers    *Handlers
	rateLimiter *ratelimit.ClientLimiter
	csrf        *middleware.CSRF
	behindProxy bool
	handler     http.Handler
}

func NewServer(catalog CatalogService, ratings RatingService, files VideoFiles, opts Options) *Server {
	mux := http.NewServeMux()

	backoff := ratelimit.NewBackoff(
		time.Minute,
		15*time.Minute,
		2.0,
	)

	s := &Server{
		mux:         mux,
		handlers:    NewHandlers(catalog, ratings, files),
		rateLimiter: ratelimit.NewClientLimiter(opts.RateLimitPerMinute, time.Minute, backoff),
		behindProxy: opts.BehindProxy,
	}
	if opts.CSRFSecret != "" {
		s.csrf = middleware.NewCSRF(opts.CSRFSecret)
	}

	s.registerRoutes()

	var h http.Handler = s.mux
	if s.csrf != nil {
		h = s.csrf.Issue(h)
	}
	h = middleware.SecurityHeaders(opts.MediaSources...)(h)
	s.handler = middleware.RequestID(h)

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/videos", s.handlers.ListVideos())
	s.mux.HandleFunc("GET /api/video-ratings", s.handlers.GetRating())
	s.mux.Handle("POST /api/video-ratings", s.protect(s.handlers.Rate()))

	s.mux.HandleFunc("GET /videos/{name}", s.handlers.ServeVideo())

	s.mux.HandleFunc("GET /{$}", s.handlers.ListPage())
	s.mux.HandleFunc("GET /watch", s.handlers.WatchPage())
}

// protect wraps a state-changing handler with the rate limiter and, when
// configured, CSRF validation.
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	var next http.Handler = h
	if s.csrf != nil {
		next = s.csrf.Require(next)
	}
	return s.rateLimiter.Middleware(s.clientIP)(next)
}

func (s *Server) clientIP(r *http.Request) string {
	return ratelimit.ClientIP(r, s.behindProxy)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Close()
}
