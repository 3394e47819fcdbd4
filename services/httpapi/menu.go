package httpapi

import (
	"log/slog"
	"net/http"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/services/menu"

	"github.com/go-chi/chi/v5"
)

type MenuHandler struct {
	menus *menu.Service
}

func NewMenuHandler(menus *menu.Service) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// Week returns the full cached weekly snapshot for both cafeterias.
// GET /api/v1/menu
func (h *MenuHandler) Week(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.menus.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Cafeteria returns one cafeteria's week.
// GET /api/v1/menu/cafeteria/{kind}
func (h *MenuHandler) Cafeteria(w http.ResponseWriter, r *http.Request) {
	kind, ok := unisis.ParseCafeteria(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidation, `cafeteria must be "staff" or "dormitory"`)
		return
	}

	schedule, err := h.menus.Cafeteria(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// Day returns both cafeterias' meals for one weekday.
// GET /api/v1/menu/day/{day}
func (h *MenuHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, ok := unisis.ParseWeekday(chi.URLParam(r, "day"))
	if !ok {
		writeError(w, http.StatusBadRequest, codeValidation, "day must be a lowercase english weekday name")
		return
	}

	menuDay, err := h.menus.Day(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menuDay)
}

// Today returns both cafeterias' meals for the current weekday in the
// portal's timezone.
// GET /api/v1/menu/today
func (h *MenuHandler) Today(w http.ResponseWriter, r *http.Request) {
	menuDay, err := h.menus.Today(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menuDay)
}

// Refresh forces an immediate fetch-parse-cache cycle and returns the
// resulting snapshot.
// POST /api/v1/menu/refresh
func (h *MenuHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(r.Context(), "forced menu refresh", "remote", r.RemoteAddr)
	snapshot, err := h.menus.Refresh(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
