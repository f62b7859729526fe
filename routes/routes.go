package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/textwave/ai-api-service/app"
	"github.com/textwave/ai-api-service/handlers"
	"github.com/textwave/ai-api-service/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Worst-case dispatch latency is the sum of per-provider timeouts, so
	// the blanket bound sits above it.
	r.Use(middleware.Timeout(90 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Service metadata and health endpoints
	r.Get("/", handlers.Root(deps))
	r.Get("/health", handlers.HealthCheck(deps))
	r.Get("/info", handlers.Info(deps))

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// AI task endpoints
	aiHandler := handlers.NewAIHandler(deps.Dispatcher, deps.Logger)
	r.Route("/ai", func(r chi.Router) {
		r.Post("/generate", aiHandler.HandleGenerate)
		r.Post("/translate", aiHandler.HandleTranslate)
		r.Post("/summarize", aiHandler.HandleSummarize)
		r.Post("/generate-code", aiHandler.HandleGenerateCode)
		r.Post("/chat", aiHandler.HandleChat)

		// Introspection: chain contents and last-known reachability,
		// served without live provider calls.
		r.Get("/provider", handlers.ProviderStatus(deps))
		r.Get("/models", handlers.Models(deps))
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
		})
	})

	return r
}
