package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pantrybox/pantrybox/internal/auth"
	"github.com/pantrybox/pantrybox/internal/handler/dto"
	"github.com/pantrybox/pantrybox/internal/store"
)

// BasketHandler handles HTTP requests for the authenticated user's
// shopping basket.
type BasketHandler struct {
	sessions *store.Sessions
	logger   *slog.Logger
}

// NewBasketHandler creates a new BasketHandler.
func NewBasketHandler(sessions *store.Sessions, logger *slog.Logger) *BasketHandler {
	return &BasketHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Get handles GET /api/basket.
func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	items, err := h.sessions.Basket(userID)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Replace handles POST /api/basket. The stored basket is replaced
// wholesale; items are not merged or validated.
func (h *BasketHandler) Replace(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.BasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.sessions.ReplaceBasket(userID, req.Basket); err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("basket_replaced",
		slog.String("user_id", userID),
		slog.Int("items", len(req.Basket)),
	)

	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}

// Clear handles DELETE /api/basket.
func (h *BasketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	if err := h.sessions.ClearBasket(userID); err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("basket_cleared", slog.String("user_id", userID))

	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}
