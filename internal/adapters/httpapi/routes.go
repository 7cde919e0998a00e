package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts every endpoint. Authentication is optional at the router
// level; each use case decides whether an identity is required.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestID)
	r.Use(h.logRequests)
	r.Use(h.recoverPanics)
	r.Use(h.authenticate)

	r.Get("/health", h.serveHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.serveSignup)
		r.Post("/login", h.serveLogin)
		r.Get("/me", h.serveMe)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.serveListEvents)
		r.Post("/", h.serveCreateEvent)
		r.Post("/forecast", h.serveForecast)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.serveGetEvent)
			r.Delete("/", h.serveDeleteEvent)
			r.Get("/registrations", h.serveEventRegistrations)
			r.Post("/register", h.serveRegisterSelf)
			r.Get("/attendance", h.serveEventAttendance)
			r.Get("/checkin-link", h.serveCheckInLink)
			r.Post("/prediction", h.servePrediction)
			r.Post("/reminders", h.serveReminders)
		})
	})

	r.Post("/register", h.serveRegister)
	r.Post("/attendance", h.serveAttendance)
	r.Post("/admin/attendance", h.serveToggleAttendance)
	r.Get("/participants", h.serveParticipants)
	r.Get("/my-registrations", h.serveMyRegistrations)
	r.Delete("/users/{id}", h.serveDeleteUser)

	r.Get("/stats", h.serveStats)
	r.Get("/stats/insights", h.serveStatsInsights)

	return r
}
