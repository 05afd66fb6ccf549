package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

var devCORSOrigins = []string{
	"http://localhost:3000", // storefront dev server
	"http://localhost:5173", // admin panel (vite)
}

// CORS applies the storefront's allowed origin policy. A "*" entry opens the
// API to any origin without credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = devCORSOrigins
	}
	wildcard := slices.Contains(origins, "*")
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}).Handler
}
