package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// SetupRoutes builds the dashboard's router.
func SetupRoutes(app *Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(200, time.Minute))
	r.Use(app.RequestLogger)

	r.Get("/health", app.HandlerHealth)
	r.Get("/status", app.HandlerStatus)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   app.Config.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Route("/analyze", func(r chi.Router) {
			r.Post("/channel", app.HandlerAnalyzeChannel)
			r.Post("/keyword", app.HandlerAnalyzeKeyword)
			r.Post("/opportunity", app.HandlerAnalyzeOpportunity)
		})

		r.Get("/categories", app.HandlerGetCategories)
		r.Post("/videos/summary", app.HandlerSummarizeVideo)

		r.Route("/export", func(r chi.Router) {
			r.Post("/csv", app.HandlerExportCSV)
			r.Post("/text", app.HandlerExportText)
			r.Post("/json", app.HandlerExportJSON)
			r.Post("/email", app.HandlerExportEmail)
		})

		r.Route("/keys", func(r chi.Router) {
			r.Get("/", app.HandlerGetKeys)
			r.Put("/", app.HandlerUpdateKeys)
			r.Post("/validate", app.HandlerValidateKeys)
		})
	})

	return r
}
