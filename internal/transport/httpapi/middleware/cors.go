package middleware

import (
	"net/http"
	"slices"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// CORS returns the cross-origin policy for browser clients. A "*" entry
// allows any origin but then withholds credentials, which browsers
// refuse to combine with a wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(allowedOrigins, "*")
	if wildcard {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodPost},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", chimiddleware.RequestIDHeader},
		ExposedHeaders:   []string{"X-Total-Count", chimiddleware.RequestIDHeader},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
