// Package httpapi exposes the session bridge, menu cache and trips
// proxy over a JSON HTTP surface. Handlers stay thin: parameter
// parsing and the uniform error envelope live here, everything else in
// the service packages.
package httpapi

import (
	"net/http"

	"unigate-backend/services/menu"
	"unigate-backend/services/session"
	"unigate-backend/services/trips"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Sessions session.Service
	Menus    *menu.Service
	Trips    *trips.Service
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	authHandler := NewAuthHandler(deps.Sessions)
	menuHandler := NewMenuHandler(deps.Menus)
	tripsHandler := NewTripsHandler(deps.Trips)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{"status": "ok"}
		if updated := deps.Menus.LastUpdated(); !updated.IsZero() {
			body["menuLastUpdated"] = updated
		}
		writeJSON(w, http.StatusOK, body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Get("/verify", authHandler.Verify)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.Week)
			r.Get("/cafeteria/{kind}", menuHandler.Cafeteria)
			r.Get("/day/{day}", menuHandler.Day)
			r.Get("/today", menuHandler.Today)
			r.Post("/refresh", menuHandler.Refresh)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", tripsHandler.List)
			r.Post("/{id}/apply", tripsHandler.Apply)
			r.Post("/{id}/withdraw", tripsHandler.Withdraw)
		})
	})

	return r
}
