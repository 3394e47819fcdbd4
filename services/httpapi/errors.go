package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/services/session"
)

// errorResponse is the single error envelope every endpoint returns.
// The error field is a stable machine code; message is for humans.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	codeValidation  = "validation_error"
	codeAuth        = "authentication_error"
	codeTokenBad    = "token_invalid"
	codeTokenOld    = "token_expired"
	codeTokenGone   = "token_revoked"
	codeRefreshGone = "refresh_not_found"
	codeRefreshOld  = "refresh_expired"
	codeUpstream    = "upstream_unavailable"
	codeMalformed   = "malformed_upstream"
	codeNotFound    = "not_found"
	codeInternal    = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeServiceError maps a service-layer error onto a status and code.
// Internal errors are logged with their detail but the response carries
// none of it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrAuthentication):
		writeError(w, http.StatusUnauthorized, codeAuth, "portal rejected the supplied credentials")
	case errors.Is(err, session.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, codeTokenOld, "bearer credential has expired")
	case errors.Is(err, session.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, codeTokenGone, "bearer credential has been revoked")
	case errors.Is(err, session.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, codeTokenBad, "bearer credential is not valid")
	case errors.Is(err, session.ErrRefreshExpired):
		writeError(w, http.StatusUnauthorized, codeRefreshOld, "refresh handle has expired")
	case errors.Is(err, session.ErrRefreshNotFound):
		writeError(w, http.StatusUnauthorized, codeRefreshGone, "refresh handle is not known")
	case errors.Is(err, unisis.ErrTripNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "trip is not present on the portal page")
	case errors.Is(err, unisis.ErrUnavailable):
		writeError(w, http.StatusBadGateway, codeUpstream, "portal is unreachable")
	case errors.Is(err, unisis.ErrMalformedInput):
		writeError(w, http.StatusBadGateway, codeMalformed, "portal returned a page that could not be parsed")
	default:
		slog.ErrorContext(r.Context(), "unhandled service error",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
