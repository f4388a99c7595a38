package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/auth"
	"github.com/DibasDebnath/SimpleNotesBackend/internal/notes"
)

type tokenResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type deleteUserReq struct {
	Password string `json:"password"`
}

type updateUsernameReq struct {
	Username string `json:"username"`
}

type updatePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.rlAuthIP.allow(getClientIP(r)) {
		tooMany(w, 60)
		return
	}

	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if _, err := s.users.FindByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	userKey, err := notes.GenerateKey()
	if err != nil {
		s.logger.Printf("generate user key: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := &auth.User{
		Username: req.Username,
		Email:    req.Email,
		PassHash: hash,
		UserKey:  userKey,
	}
	if err := s.users.Add(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		s.logger.Printf("add user: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, _, err := s.signer.IssueToken(user.ID)
	if err != nil {
		s.logger.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.audit.Appendf("register %s", user.Email)
	writeJSONStatus(w, http.StatusCreated, tokenResp{Message: "User registered successfully", Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.rlAuthIP.allow(getClientIP(r)) {
		tooMany(w, 60)
		return
	}

	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if !auth.VerifyPassword(req.Password, user.PassHash) {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, _, err := s.signer.IssueToken(user.ID)
	if err != nil {
		s.logger.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.audit.Appendf("login %s", user.Email)
	writeJSON(w, tokenResp{Message: "User logged in successfully", Token: token})
}

// handleAuthRoot serves GET /api/auth/ — the caller's profile.
func (s *Server) handleAuthRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/auth/" {
		writeError(w, http.StatusNotFound, "Request Invalid")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, user)
}

func (s *Server) handleRenewToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	claims, err := auth.MustClaims(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid token.")
		return
	}

	remaining := time.Until(time.Unix(claims.ExpiresAt, 0))
	if remaining >= s.cfg.RenewWindow {
		writeError(w, http.StatusBadRequest, "Token does not need renewal yet")
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	token, _, err := s.signer.IssueToken(user.ID)
	if err != nil {
		s.logger.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, tokenResp{Message: "Token renewed successfully", Token: token})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req deleteUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	// Re-authenticate, then take the account's notes with it.
	count, err := s.notes.DeleteAll(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, notes.ErrWrongPassword) {
			writeError(w, http.StatusBadRequest, "Wrong password")
			return
		}
		s.logger.Printf("delete notes for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if err := s.users.Delete(r.Context(), user.ID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Printf("delete user %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.audit.Appendf("delete-account %s notes=%d", user.Email, count)
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req updateUsernameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	claims, err := auth.MustClaims(r)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid token.")
		return
	}
	user, err := s.users.UpdateUsername(r.Context(), claims.Sub, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Printf("update username: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, user)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req updatePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := s.currentUser(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if !auth.VerifyPassword(req.CurrentPassword, user.PassHash) {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if err := s.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.logger.Printf("update password: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	s.audit.Appendf("update-password %s", user.Email)
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *Server) currentUser(r *http.Request) (*auth.User, error) {
	claims, err := auth.MustClaims(r)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(r.Context(), claims.Sub)
}
