package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"

	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// newID generates a random identifier for templates and history entries.
func newID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "0"
	}
	return hex.EncodeToString(buf)
}

// clientKey identifies the caller for rate limiting and per-user data.
// Auth lives in front of this service; it forwards the user id in a header.
func clientKey(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// displayLanguage extracts and normalizes the display language, defaulting
// to Vietnamese.
func displayLanguage(raw models.DisplayLanguage) models.DisplayLanguage {
	if raw.Valid() {
		return raw
	}
	return models.LangVietnamese
}

// LoggingMiddleware logs each request with method, path and status.
func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"client": clientKey(r),
			}).Debug("Handling request")
			next.ServeHTTP(w, r)
		})
	}
}
