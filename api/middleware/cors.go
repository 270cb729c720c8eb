package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// TokenHeader carries the access token minted at login.
const TokenHeader = "X-Ayur-Token"

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local storefront
	"http://localhost:3001", // local admin
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TokenHeader, IdempotencyHeader, requestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{TokenHeader, requestIDHeader, "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
