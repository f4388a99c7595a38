package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/notes"
)

type noteReq struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

type deleteAllReq struct {
	Password string `json:"password"`
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		page := queryInt(r, "page", notes.DefaultPage)
		limit := queryInt(r, "limit", notes.DefaultLimit)
		list, err := s.notes.List(r.Context(), user, page, limit)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		writeJSON(w, list)

	case http.MethodPost:
		var req noteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		note, err := s.notes.Create(r.Context(), user, req.Title, req.Details)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		writeJSONStatus(w, http.StatusCreated, note)

	case http.MethodDelete:
		var req deleteAllReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		count, err := s.notes.DeleteAll(r.Context(), user, req.Password)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		s.audit.Appendf("delete-all-notes %s count=%d", user.Email, count)
		writeJSON(w, map[string]int64{"deletedCount": count})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleNotesSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title query parameter is required")
		return
	}
	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	found, err := s.notes.SearchByTitle(r.Context(), user, title)
	if err != nil {
		s.writeNoteError(w, err)
		return
	}
	if len(found) == 0 {
		writeError(w, http.StatusNotFound, "No notes found with that title")
		return
	}
	writeJSON(w, found)
}

func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/notes/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "No such note found or not authorized")
		return
	}
	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		note, err := s.notes.Get(r.Context(), user, id)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		writeJSON(w, note)

	case http.MethodPatch:
		var req noteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		note, err := s.notes.Update(r.Context(), user, id, req.Title, req.Details)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		writeJSONStatus(w, http.StatusCreated, note)

	case http.MethodDelete:
		note, err := s.notes.Delete(r.Context(), user, id)
		if err != nil {
			s.writeNoteError(w, err)
			return
		}
		writeJSON(w, map[string]any{"message": "Note deleted successfully", "note": note})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeNoteError maps service errors onto the response taxonomy: validation
// and re-auth failures are 400 with a specific message, missing or foreign
// notes are one indistinguishable 404, everything else is a generic 500
// with the detail kept server-side.
func (s *Server) writeNoteError(w http.ResponseWriter, err error) {
	var verr *notes.ValidationError
	switch {
	case errors.As(err, &verr):
		payload := map[string]any{"error": verr.Message}
		if len(verr.EmptyFields) > 0 {
			payload["emptyFields"] = verr.EmptyFields
		}
		writeJSONStatus(w, http.StatusBadRequest, payload)
	case errors.Is(err, notes.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "No such note found or not authorized")
	case errors.Is(err, notes.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "Wrong password")
	default:
		s.logger.Printf("notes: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
