package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows the configured comma separated origins. "*" or an empty list
// allows any origin; the origin is still echoed so credentials keep working.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type", TraceHeader},
		ExposedHeaders:       []string{TraceHeader},
		AllowCredentials:     true,
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	}

	allowAll := true
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			allowAll = true
			opts.AllowedOrigins = nil
			break
		}
		allowAll = false
		opts.AllowedOrigins = append(opts.AllowedOrigins, o)
	}
	if allowAll {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}

	return cors.Handler(opts)
}
