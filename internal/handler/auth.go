package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pantrybox/pantrybox/internal/auth"
	"github.com/pantrybox/pantrybox/internal/handler/dto"
	"github.com/pantrybox/pantrybox/internal/store"
	"github.com/pantrybox/pantrybox/internal/token"
)

// loginFailedMessage is returned for both unknown usernames and wrong
// passwords, so a caller cannot enumerate accounts.
const loginFailedMessage = "Invalid username or password"

// AuthHandler handles login and token verification.
type AuthHandler struct {
	creds  *store.Credentials
	tokens token.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(creds *store.Credentials, tokens token.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		creds:  creds,
		tokens: tokens,
		logger: logger,
	}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "Username and password are required")
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		h.logger.Warn("login failed",
			slog.String("username", req.Username),
			slog.String("ip", r.RemoteAddr),
		)
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", loginFailedMessage)
		return
	}

	user, ok := h.creds.Find(req.Username)
	if !ok {
		// Verify just succeeded, so this is a store inconsistency.
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", loginFailedMessage)
		return
	}

	tok, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("login_succeeded",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: tok,
		User:  user.Public(),
	})
}

// Verify handles GET /api/verify. The gate has already validated the
// token; this just echoes the authenticated user.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	user, ok := h.creds.Find(identity.Username)
	if !ok {
		// Token outlived the credential snapshot it was issued from.
		writeError(w, http.StatusForbidden, "UNAUTHENTICATED", "Invalid or expired token")
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyResponse{User: user.Public()})
}
