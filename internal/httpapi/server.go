// Package httpapi exposes the ingest and feed endpoints over HTTP.
package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/allyman17/orchard-rss/internal/feed"
	"github.com/allyman17/orchard-rss/internal/imdb"
	"github.com/allyman17/orchard-rss/internal/logging"
)

type Server struct {
	svc    *feed.Service
	apiKey string
	logger *logging.Logger
	server *http.Server
}

// New creates the HTTP server. When apiKey is non-empty, POST /post requires
// a matching X-Api-Key header; the feed stays public either way.
func New(svc *feed.Service, apiKey string, logger *logging.Logger) *Server {
	return &Server{
		svc:    svc,
		apiKey: apiKey,
		logger: logger,
	}
}

func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler builds the route mux, exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/post", s.corsMiddleware(s.recoverMiddleware(s.apiKeyMiddleware(s.handleIngest))))
	mux.HandleFunc("/rss", s.corsMiddleware(s.recoverMiddleware(s.handleFeed)))
	mux.HandleFunc("/health", s.handleHealth)

	return mux
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// recoverMiddleware keeps a panicking handler from taking the process down:
// the stack is logged and the caller gets the fixed 500 shape.
func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Panic in handler", logging.WithFields(map[string]interface{}{
					"path":  r.URL.Path,
					"panic": rec,
					"stack": string(debug.Stack()),
				}))
				s.writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Failed to process request",
					"message": "internal server error",
				})
			}
		}()
		next(w, r)
	}
}

func (s *Server) apiKeyMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" {
			provided := r.Header.Get("X-Api-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(s.apiKey)) != 1 {
				s.writeJSON(w, http.StatusForbidden, map[string]string{
					"message": "Forbidden",
				})
				return
			}
		}
		next(w, r)
	}
}

type ingestRequest struct {
	IMDB  string `json:"imdb"`
	URL   string `json:"url"`
	Query string `json:"query"`
}

// input returns the submitted text, checking fields in fixed precedence.
func (r ingestRequest) input() string {
	if r.IMDB != "" {
		return r.IMDB
	}
	if r.URL != "" {
		return r.URL
	}
	return r.Query
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body and a malformed one end up the same place: no usable
	// input field.
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing IMDB URL or ID.",
		})
		return
	}

	input := strings.TrimSpace(req.input())
	if input == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing IMDB URL or ID.",
		})
		return
	}

	result, err := s.svc.Ingest(r.Context(), input)
	if err != nil {
		s.writeIngestError(w, input, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Movie added successfully to RSS feed",
		"item_id": result.ItemID,
	})
}

func (s *Server) writeIngestError(w http.ResponseWriter, input string, err error) {
	var notFound *feed.MovieNotFoundError
	var noVariant *feed.NoVariantError

	switch {
	case errors.Is(err, imdb.ErrInvalidIdentifier):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":    "Invalid IMDB format",
			"provided": input,
		})
	case errors.As(err, &notFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"message": "Movie not found on YTS",
			"imdb_id": notFound.IMDBCode,
		})
	case errors.As(err, &noVariant):
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"message": "No 1080p version available",
			"movie":   noVariant.Movie,
		})
	default:
		s.logger.Error("Ingest failed", logging.WithField("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to process request",
			"message": err.Error(),
		})
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := s.svc.RenderFeed(r.Context())
	if err != nil {
		s.logger.Error("Failed to generate RSS feed", logging.WithField("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to generate RSS feed",
			"message": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "max-age=1800")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
