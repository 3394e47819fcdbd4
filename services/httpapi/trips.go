package httpapi

import (
	"context"
	"net/http"

	"unigate-backend/services/trips"

	"github.com/go-chi/chi/v5"
)

type TripsHandler struct {
	trips *trips.Service
}

func NewTripsHandler(service *trips.Service) *TripsHandler {
	return &TripsHandler{trips: service}
}

func (h *TripsHandler) requireBearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	bearer := bearerFromRequest(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, codeTokenBad, "Authorization header with a Bearer credential is required")
		return "", false
	}
	return bearer, true
}

// List returns the trips visible to the caller on the portal.
// GET /api/v1/trips
func (h *TripsHandler) List(w http.ResponseWriter, r *http.Request) {
	bearer, ok := h.requireBearer(w, r)
	if !ok {
		return
	}

	list, err := h.trips.List(r.Context(), bearer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type tripOutcomeResponse struct {
	Message string `json:"message"`
}

// Apply forwards a trip application to the portal and relays the
// portal's own outcome banner.
// POST /api/v1/trips/{id}/apply
func (h *TripsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.trips.Apply)
}

// Withdraw cancels an application the same way.
// POST /api/v1/trips/{id}/withdraw
func (h *TripsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.trips.Withdraw)
}

func (h *TripsHandler) act(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, bearer, tripID string) (string, error),
) {
	bearer, ok := h.requireBearer(w, r)
	if !ok {
		return
	}
	tripID := chi.URLParam(r, "id")
	if tripID == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "trip id is required")
		return
	}

	outcome, err := action(r.Context(), bearer, tripID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripOutcomeResponse{Message: outcome})
}
