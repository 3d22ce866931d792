package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pantrybox/pantrybox/internal/auth"
	"github.com/pantrybox/pantrybox/internal/token"
)

// Gate returns a middleware that authenticates bearer-token requests.
// It extracts the token from the Authorization header, verifies it
// with the token service, and injects the identity into the request
// context. A missing or malformed header yields 401; a token that the
// service rejects yields 403. The gate is read-only: it mutates no
// state either way.
func Gate(tokens token.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearerToken(r)
			if raw == "" {
				logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeGateError(w, http.StatusUnauthorized, "Authentication token missing")
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeGateError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" for an absent or malformed header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// writeGateError writes an authentication error response.
// Uses a fixed message per status so failures reveal nothing about
// stored accounts.
func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"UNAUTHENTICATED"}`))
}
