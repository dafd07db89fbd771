package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for anything that returns or sets credentials.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteStatus writes the uniform `{"status": ...}` body the auth surface
// speaks. Failure statuses are deliberately indistinguishable from one
// another beyond the HTTP code, so a caller can't probe which check failed.
func WriteStatus(w http.ResponseWriter, code int, status string) {
	WriteJSON(w, code, map[string]string{"status": status})
}

// WriteUnauthorized writes the single 401 shape every rejection path uses.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteStatus(w, http.StatusUnauthorized, "unauthorized")
}
