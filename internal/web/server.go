// Package web provides the HTTP server and JSON API for the translation
// editor. All state lives in the in-memory session store; handlers parse
// the request, call into core, and render JSON.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sagsagg/translation-tools/internal/config"
	"github.com/sagsagg/translation-tools/internal/core"
	"github.com/sagsagg/translation-tools/internal/language"
	"github.com/sagsagg/translation-tools/internal/session"
)

// Server is the HTTP server for the translation editor API.
type Server struct {
	cfg       *config.Config
	catalog   *language.Catalog
	converter *core.Converter
	filenames *core.FilenameValidator
	sessions  *session.Store
	router    *chi.Mux
	server    *http.Server

	uploadLimiter *rateLimiter
}

// NewServer wires the core engines and session store into an HTTP server.
func NewServer(cfg *config.Config, catalog *language.Catalog, sessions *session.Store) *Server {
	s := &Server{
		cfg:       cfg,
		catalog:   catalog,
		converter: core.NewConverter(catalog, cfg.Convert.CacheSize),
		filenames: core.NewFilenameValidator(catalog),
		sessions:  sessions,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	if s.cfg.Security.EnableCSP {
		s.router.Use(securityHeaders)
	}

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)

		// Uploads get a tighter budget than ordinary API calls.
		s.uploadLimiter = newRateLimiter(s.cfg.Rate.UploadLimit, time.Minute)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Language catalog
		r.Get("/languages", s.handleListCatalog)

		// Stateless validation
		r.Post("/validate", s.handleValidateContent)
		r.Post("/validate/filenames", s.handleValidateFilenames)

		// Stateless conversion helpers
		r.Post("/convert/options", s.handleValidateOptions)
		r.Post("/convert/preview", s.handlePreview)
		r.Post("/convert/estimate", s.handleEstimate)

		// Sessions
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			// Upload operations
			r.Group(func(r chi.Router) {
				if s.uploadLimiter != nil {
					r.Use(s.uploadLimiter.middleware)
				}
				r.Post("/upload", s.handleUpload)
				r.Post("/upload/batch", s.handleBatchUpload)
			})
			r.Get("/history", s.handleUploadHistory)

			// Edit and delete
			r.Post("/edit", s.handleEdit)
			r.Post("/delete", s.handleDelete)

			// Language columns
			r.Get("/languages", s.handleSessionLanguages)
			r.Post("/languages", s.handleAddLanguage)
			r.Delete("/languages/{name}", s.handleRemoveLanguage)

			// Search
			r.Get("/search", s.handleSearch)
			r.Get("/suggestions", s.handleSuggestions)

			// Stats and export
			r.Get("/stats", s.handleStats)
			r.Get("/export/{code}", s.handleExport)
			r.Get("/export/{code}/csv", s.handleExportCSV)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// The API serves JSON only; keep the policy tight.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	// Check if we have tokens left
	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		// Use X-Real-IP if set (by RealIP middleware)
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			ip = realIP
		}

		if !rl.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Message: "Too many requests",
				Action:  "Please wait a moment before trying again",
				Code:    "RATE001",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status code.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
