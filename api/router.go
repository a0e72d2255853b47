// Package api exposes a session over a local HTTP control surface.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"outfitmem/editor"
	"outfitmem/formats"
	"outfitmem/session"
	"outfitmem/wardrobe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxDocumentSize = 1 << 20

// Server holds the HTTP server dependencies. Handlers run concurrently, the
// session does not, so every session call goes through mu.
type Server struct {
	mu      sync.Mutex
	sess    *session.Session
	origins []string
	router  chi.Router
}

func New(sess *session.Session, allowedOrigins []string) *Server {
	s := &Server{
		sess:    sess,
		origins: allowedOrigins,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/attach", s.handleAttach)
		r.Post("/detach", s.handleDetach)

		// Live outfit
		r.Get("/outfit", s.handleReadOutfit)
		r.Put("/outfit", s.handleWriteOutfit)
		r.Get("/outfit/name", s.handleGetName)
		r.Put("/outfit/name", s.handleSetName)

		// Files
		r.Post("/detect", s.handleDetect)
		r.Post("/convert", s.handleConvert)

		// Wardrobe
		r.Get("/wardrobe", s.handleListWardrobe)
		r.Post("/wardrobe", s.handleBackup)
		r.Get("/wardrobe/{id}", s.handleGetWardrobe)
		r.Delete("/wardrobe/{id}", s.handleDeleteWardrobe)
		r.Post("/wardrobe/{id}/restore", s.handleRestore)
		r.Post("/restore", s.handleRestore)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure reports an action-level message; the status comes from the cause
func respondFailure(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrNotAttached), errors.Is(err, editor.ErrAlreadyAttached):
		status = http.StatusConflict
	case errors.Is(err, formats.ErrUnknownFormat), errors.Is(err, editor.ErrNameTooLong):
		status = http.StatusBadRequest
	case errors.Is(err, wardrobe.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoWardrobe):
		status = http.StatusNotImplemented
	}
	respondError(w, status, message)
}

func respondDocument(w http.ResponseWriter, f formats.Format, data []byte) {
	if f == formats.Stand {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("X-Outfit-Format", f.String())
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxDocumentSize)).Decode(v)
}

func readDocument(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
}

// formatParam reads ?name= as a format, falling back to def when absent
func formatParam(r *http.Request, name string, def formats.Format) (formats.Format, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return formats.ParseFormat(v)
}
