package server

import "net/http"

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/health", s.handleHealth)

	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/renew", s.handleRenewToken)
	s.mux.HandleFunc("/api/auth/delete", s.handleDeleteUser)
	s.mux.HandleFunc("/api/auth/update-username", s.handleUpdateUsername)
	s.mux.HandleFunc("/api/auth/update-password", s.handleUpdatePassword)
	s.mux.HandleFunc("/api/auth/", s.handleAuthRoot)

	s.mux.HandleFunc("/api/notes", s.handleNotes)
	s.mux.HandleFunc("/api/notes/search", s.handleNotesSearch)
	s.mux.HandleFunc("/api/notes/", s.handleNoteByID)

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		writeJSON(w, map[string]string{"answer": "Welcome"})
		return
	}
	writeError(w, http.StatusNotFound, "Request Invalid")
}
