package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/brightnest/leads-api/internal/config"
)

// APIKeyAuth middleware validates the API key passed in the "api_key" header.
// Missing keys get 401, unknown keys 403.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized: API key required")
				return
			}

			valid := false
			for _, validKey := range cfg.APIKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
					valid = true
					break
				}
			}

			if !valid {
				writeError(w, http.StatusForbidden, "Forbidden: Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
