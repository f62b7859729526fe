package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/textwave/ai-api-service/app"
)

const serviceVersion = "1.0.0"

// Root returns basic API information at GET /
func Root(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		primary, _ := deps.Registry.Primary()

		response := map[string]interface{}{
			"message":      "Welcome to AI API Service!",
			"status":       "healthy",
			"version":      serviceVersion,
			"provider":     primary.Name,
			"model":        primary.Model,
			"health_check": "/health",
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// HealthCheck returns a simple health check handler at GET /health
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status":      "healthy",
			"service":     "ai-api-service",
			"environment": deps.Config.Environment,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Info returns API configuration information at GET /info
func Info(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		primary, _ := deps.Registry.Primary()

		response := map[string]interface{}{
			"api_name":    "AI API Service",
			"version":     serviceVersion,
			"environment": deps.Config.Environment,
			"ai_provider": primary.Name,
			"model":       primary.Model,
			"api_key_configured": deps.Config.Providers.Groq.APIKey != "" ||
				deps.Config.Providers.HuggingFace.APIKey != "",
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ProviderStatus reports the provider chain with last-known reachability at
// GET /ai/provider. It never triggers a live provider call.
func ProviderStatus(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"providers": deps.Registry.Statuses(),
			"enabled":   deps.Registry.Count(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Models lists the configured model per provider at GET /ai/models.
func Models(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"models": deps.Registry.Models(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
