package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"wealthway/internal/log"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to encode JSON response",
			log.FieldError, err.Error(),
			log.FieldPath, r.URL.Path)
	}
}

// themeHint reads the Sec-CH-Prefers-Color-Scheme client hint.
func themeHint(r *http.Request) (string, bool) {
	v := strings.Trim(strings.TrimSpace(r.Header.Get("Sec-CH-Prefers-Color-Scheme")), `"`)
	return v, v != ""
}
