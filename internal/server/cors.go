package server

import (
	"net/http"
	"slices"
	"strconv"
	"time"
)

const corsMaxAge = 10 * time.Minute

// CORS lets browsers on the allowed origins call the API. An origin of "*" allows every origin.
// Preflight requests are answered directly and never reach next.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAny := slices.Contains(allowedOrigins, "*")
	maxAge := strconv.Itoa(int(corsMaxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)

			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")
		switch {
		case allowAny:
			h.Set("Access-Control-Allow-Origin", "*")
		case slices.Contains(allowedOrigins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
		default:
			next.ServeHTTP(w, r)

			return
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			} else {
				h.Set("Access-Control-Allow-Headers", "Content-Type")
			}
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)

			return
		}

		h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		next.ServeHTTP(w, r)
	})
}
