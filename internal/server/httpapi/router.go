package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)

	r.Get("/health", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", s.collector.Handler())

	r.Post("/api/auth/register", s.registerHandler)
	r.Post("/api/auth/login", s.loginHandler)

	r.Group(func(protected chi.Router) {
		protected.Use(s.Authenticate)
		protected.Get("/api/auth/verify", s.verifyHandler)
		protected.Get("/api/user/me", s.meHandler)

		protected.Group(func(admin chi.Router) {
			admin.Use(s.RequireAdmin)
			admin.Get("/api/users", s.listUsersHandler)
		})
	})

	return r
}
