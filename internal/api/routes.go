package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the HTTP surface of the bootcamp service.
func SetupRoutes(bh *BootcampHandler, eh *EnrollmentHandler, hh *HealthHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(MessageID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", HeaderMessageID, HeaderUserID},
		MaxAge:         300,
	}))

	r.Get("/health", hh.Check)

	r.Route("/bootcamp", func(r chi.Router) {
		r.Post("/", bh.Create)
		r.Post("/checking", bh.CheckExist)
		r.Get("/", bh.List)

		r.Post("/enroll", eh.Enroll)
		r.Get("/user/{userId}", eh.GetUserBootcamps)

		r.Get("/{id}", bh.GetByID)
		r.Delete("/{id}", bh.Delete)
		r.Get("/{id}/users", eh.GetBootcampUsers)
		r.Delete("/{bootcampId}/user/{userId}", eh.Unenroll)
	})

	return r
}
