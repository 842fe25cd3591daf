package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps h so browsers on allowedOrigins can call the API. An empty list
// allows every origin.
func CORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(h)
}
