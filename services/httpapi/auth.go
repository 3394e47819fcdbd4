package httpapi

import (
	"encoding/json"
	"net/http"

	"unigate-backend/services/session"
)

type AuthHandler struct {
	sessions session.Service
}

func NewAuthHandler(sessions session.Service) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshHandle string `json:"refreshHandle"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

type logoutRequest struct {
	RefreshHandle string `json:"refreshHandle"`
}

type credentialsResponse struct {
	Bearer        string `json:"bearer"`
	RefreshHandle string `json:"refreshHandle"`
	ExpiresIn     int64  `json:"expiresIn"`
}

func toCredentialsResponse(creds session.Credentials) credentialsResponse {
	return credentialsResponse{
		Bearer:        creds.Bearer,
		RefreshHandle: creds.RefreshHandle,
		ExpiresIn:     creds.ExpiresIn,
	}
}

// Login exchanges a username/password for a bearer credential.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "request body is not valid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "username and password are required")
		return
	}

	creds, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCredentialsResponse(creds))
}

// Refresh re-authenticates with the portal through a refresh handle
// and a re-supplied password and mints a new credential pair.
// POST /api/v1/auth/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "request body is not valid JSON")
		return
	}
	if req.RefreshHandle == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "refreshHandle, username and password are required")
		return
	}

	creds, err := h.sessions.Refresh(r.Context(), req.RefreshHandle, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCredentialsResponse(creds))
}

// Logout revokes the caller's bearer and refresh handle. Always
// idempotent: revoking already-gone credentials still succeeds.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "request body is not valid JSON")
		return
	}

	if err := h.sessions.Logout(r.Context(), bearerFromRequest(r), req.RefreshHandle); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Verify reports whether the presented bearer is currently valid and
// which user it belongs to.
// GET /api/v1/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	bearer := bearerFromRequest(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, codeTokenBad, "Authorization header with a Bearer credential is required")
		return
	}

	userID, err := h.sessions.Verify(r.Context(), bearer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
}
