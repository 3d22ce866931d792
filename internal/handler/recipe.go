package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pantrybox/pantrybox/internal/auth"
	"github.com/pantrybox/pantrybox/internal/handler/dto"
	"github.com/pantrybox/pantrybox/internal/model"
	"github.com/pantrybox/pantrybox/internal/store"
)

// RecipeHandler handles HTTP requests for the authenticated user's
// recipe list.
type RecipeHandler struct {
	sessions *store.Sessions
	logger   *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(sessions *store.Sessions, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// List handles GET /api/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	sess, err := h.sessions.Get(userID)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, sess.Recipes)
}

// Upsert handles POST /api/recipes. The recipe whose id matches is
// replaced in place; otherwise the recipe is appended.
func (h *RecipeHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID

	var recipe model.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	stored, err := h.sessions.UpsertRecipe(userID, recipe)
	if err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_saved",
		slog.String("user_id", userID),
		slog.String("recipe_id", stored.ID()),
	)

	writeJSON(w, http.StatusOK, dto.RecipeResponse{
		Success: true,
		Recipe:  stored,
	})
}

// Delete handles DELETE /api/recipes/{id}. Deleting a recipe that
// does not exist is a successful no-op.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustIdentityFromContext(r.Context()).UserID
	recipeID := chi.URLParam(r, "id")

	if err := h.sessions.DeleteRecipe(userID, recipeID); err != nil {
		handleStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_deleted",
		slog.String("user_id", userID),
		slog.String("recipe_id", recipeID),
	)

	writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true})
}
