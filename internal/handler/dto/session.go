package dto

import "github.com/pantrybox/pantrybox/internal/model"

// RecipeResponse is the success body of POST /api/recipes.
type RecipeResponse struct {
	Success bool         `json:"success"`
	Recipe  model.Recipe `json:"recipe"`
}

// BasketRequest is the body of POST /api/basket.
type BasketRequest struct {
	Basket []model.BasketItem `json:"basket"`
}

// StatusResponse is the generic success body for mutations that
// return no payload.
type StatusResponse struct {
	Success bool `json:"success"`
}
