package api

import (
	"net/http"

	"outfitmem/editor"
	"outfitmem/formats"
	"outfitmem/session"
)

type statusResponse struct {
	State   string `json:"state"`
	Process string `json:"process,omitempty"`
	PID     int    `json:"pid,omitempty"`
	World   string `json:"world,omitempty"`
	Outfit  string `json:"outfit,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.sess.Binder()
	resp := statusResponse{State: b.State().String()}
	if bases, err := b.Bases(); err == nil {
		proc := b.Process()
		resp.Process = proc.Name()
		resp.PID = int(proc.GetPID())
		resp.World = bases.World.ToString()
		resp.Outfit = bases.Outfit.ToString()
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.Attach(r.Context()); err != nil {
		respondFailure(w, err, "attach failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": editor.Attached.String()})
}

func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.Detach(); err != nil {
		respondFailure(w, err, "detach failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": editor.Detached.String()})
}

// handleReadOutfit returns the live outfit serialized as ?format= (YimMenu by default)
func (s *Server) handleReadOutfit(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r, "format", formats.YimMenu)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown format")
		return
	}

	s.mu.Lock()
	o, err := s.sess.Read()
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "read failed")
		return
	}

	data, err := session.Export(o, f)
	if err != nil {
		respondFailure(w, err, "export failed")
		return
	}
	respondDocument(w, f, data)
}

// handleWriteOutfit takes a document in any supported format and applies it
func (s *Server) handleWriteOutfit(w http.ResponseWriter, r *http.Request) {
	data, err := readDocument(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, f, err := session.Load(data)
	if err != nil {
		respondFailure(w, err, "load failed")
		return
	}

	s.mu.Lock()
	err = s.sess.Write(o)
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "write failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"format": f.String()})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleGetName(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	name, err := s.sess.Mapper().OutfitName()
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "read failed")
		return
	}
	respondJSON(w, http.StatusOK, nameRequest{Name: name})
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	err := s.sess.Mapper().SetOutfitName(req.Name)
	s.mu.Unlock()
	if err != nil {
		respondFailure(w, err, "write failed")
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	data, err := readDocument(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"format": formats.DetectFormat(data).String()})
}

// handleConvert re-encodes the body as ?to=
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	to, err := formatParam(r, "to", formats.Unknown)
	if err != nil || to == formats.Unknown {
		respondError(w, http.StatusBadRequest, "to must name a format")
		return
	}

	data, err := readDocument(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, _, err := session.Load(data)
	if err != nil {
		respondFailure(w, err, "load failed")
		return
	}

	out, err := session.Export(o, to)
	if err != nil {
		respondFailure(w, err, "export failed")
		return
	}
	respondDocument(w, to, out)
}
