package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pantrybox/pantrybox/internal/handler/dto"
	"github.com/pantrybox/pantrybox/internal/store"
)

// UserHandler handles account creation. Whether the route sits
// behind the auth gate is decided at mount time (OPEN_ADMIN_CREATE);
// the handler itself does not care.
type UserHandler struct {
	creds  *store.Credentials
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(creds *store.Credentials, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		creds:  creds,
		logger: logger,
	}
}

// Create handles POST /api/admin/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.creds.Create(req.Username, req.Password, req.Name)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusOK, dto.CreateUserResponse{
		Success: true,
		UserID:  user.ID,
	})
}
