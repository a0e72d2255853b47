package api

import (
	"net/http"

	"outfitmem/formats"
	"outfitmem/session"
	"outfitmem/wardrobe"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListWardrobe(w http.ResponseWriter, r *http.Request) {
	store := s.sess.Store()
	if store == nil {
		respondFailure(w, session.ErrNoWardrobe, "no wardrobe")
		return
	}

	entries, err := store.List(wardrobe.Kind(r.URL.Query().Get("kind")))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list wardrobe")
		return
	}
	if entries == nil {
		entries = []wardrobe.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleBackup saves the live outfit; the body may carry {"name": ...}
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	req := nameRequest{Name: "manual backup"}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	s.mu.Lock()
	e, err := s.sess.Backup(req.Name)
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "backup failed")
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

// handleGetWardrobe returns a stored outfit serialized as ?format=
func (s *Server) handleGetWardrobe(w http.ResponseWriter, r *http.Request) {
	store := s.sess.Store()
	if store == nil {
		respondFailure(w, session.ErrNoWardrobe, "no wardrobe")
		return
	}

	f, err := formatParam(r, "format", formats.YimMenu)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown format")
		return
	}

	e, err := store.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(w, err, "Outfit not found")
		return
	}

	data, err := session.Export(e.Outfit, f)
	if err != nil {
		respondFailure(w, err, "export failed")
		return
	}
	respondDocument(w, f, data)
}

func (s *Server) handleDeleteWardrobe(w http.ResponseWriter, r *http.Request) {
	store := s.sess.Store()
	if store == nil {
		respondFailure(w, session.ErrNoWardrobe, "no wardrobe")
		return
	}

	if err := store.Delete(chi.URLParam(r, "id")); err != nil {
		respondFailure(w, err, "Outfit not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRestore writes a stored outfit back; without an id the newest backup
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	e, err := s.sess.Restore(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "restore failed")
		return
	}
	respondJSON(w, http.StatusOK, e)
}
