package model

import "encoding/json"

// Recipe is a free-form document. The only field the server cares
// about is "id", which identifies the recipe within a user's list.
type Recipe map[string]any

// ID returns the recipe's id field, or "" when absent or not a string.
func (r Recipe) ID() string {
	id, _ := r["id"].(string)
	return id
}

// BasketItem is an opaque basket entry. The server stores and returns
// it verbatim; no shape is enforced.
type BasketItem = json.RawMessage

// Session holds a user's saved recipes and shopping basket.
// A session is created lazily on first access and never deleted.
type Session struct {
	Recipes []Recipe     `json:"recipes"`
	Basket  []BasketItem `json:"basket"`
}

// NewSession returns an empty session. Both lists are allocated so
// they marshal as [] rather than null.
func NewSession() *Session {
	return &Session{
		Recipes: make([]Recipe, 0),
		Basket:  make([]BasketItem, 0),
	}
}
