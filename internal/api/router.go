package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/video-brief/backend/internal/api/handlers"
	"github.com/video-brief/backend/internal/api/middleware"
	"github.com/video-brief/backend/internal/config"
	"github.com/video-brief/backend/internal/db"
	"github.com/video-brief/backend/internal/summarize"
	"github.com/video-brief/backend/internal/transcript"
)

func NewRouter(cfg *config.Config, fetcher transcript.Fetcher, summarizer summarize.Summarizer, database *db.Database) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	summaryHandler := handlers.NewSummaryHandler(fetcher, summarizer, database, cfg.GeminiModel)
	modelsHandler := handlers.NewModelsHandler(cfg.GeminiAPIKey)

	summaryLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Get("/models", modelsHandler.ListModels)

		r.Group(func(r chi.Router) {
			r.Use(summaryLimiter.Handler)
			r.Get("/summarize", summaryHandler.Summarize)
		})
	})

	return r
}
