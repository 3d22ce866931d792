package store

import (
	"fmt"
	"sync"

	"github.com/pantrybox/pantrybox/internal/model"
)

// Sessions is the session store: a user-id-keyed table of per-user
// application state (recipes, basket) persisted as a single JSON
// snapshot. Records are created lazily on first access and never
// deleted.
//
// Without the mutex two concurrent writers for the same user would
// both read the pre-mutation list and the last persisted write would
// silently win; holding the lock across read-modify-persist closes
// that race.
type Sessions struct {
	mu       sync.Mutex
	path     string
	sessions map[string]*model.Session // keyed by user id
}

// OpenSessions loads the snapshot at path, starting empty when no
// snapshot exists yet.
func OpenSessions(path string) (*Sessions, error) {
	s := &Sessions{
		path:     path,
		sessions: make(map[string]*model.Session),
	}

	if _, err := loadSnapshot(path, &s.sessions); err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the user's session, creating and persisting an empty
// one on first access.
func (s *Sessions) Get(userID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	return cloneSession(sess), nil
}

// UpsertRecipe stores the recipe in the user's list: the entry whose
// id matches is replaced in place, otherwise the recipe is appended.
// Returns the stored recipe.
func (s *Sessions) UpsertRecipe(userID string, recipe model.Recipe) (model.Recipe, error) {
	if recipe.ID() == "" {
		return nil, fmt.Errorf("%w: recipe id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	prev := sess.Recipes
	next := make([]model.Recipe, len(prev))
	copy(next, prev)

	replaced := false
	for i, r := range next {
		if r.ID() == recipe.ID() {
			next[i] = recipe
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, recipe)
	}

	sess.Recipes = next
	if err := s.persist(); err != nil {
		sess.Recipes = prev
		return nil, err
	}

	return recipe, nil
}

// DeleteRecipe removes every recipe with the given id from the user's
// list. Deleting a missing id is a successful no-op.
func (s *Sessions) DeleteRecipe(userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensure(userID)
	if err != nil {
		return err
	}

	prev := sess.Recipes
	next := make([]model.Recipe, 0, len(prev))
	for _, r := range prev {
		if r.ID() != recipeID {
			next = append(next, r)
		}
	}

	if len(next) == len(prev) {
		return nil
	}

	sess.Recipes = next
	if err := s.persist(); err != nil {
		sess.Recipes = prev
		return err
	}

	return nil
}

// Basket returns the user's basket in insertion order.
func (s *Sessions) Basket(userID string) ([]model.BasketItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensure(userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.BasketItem, len(sess.Basket))
	copy(items, sess.Basket)
	return items, nil
}

// ReplaceBasket discards the user's basket entirely and substitutes
// the given items. Item shape is not validated.
func (s *Sessions) ReplaceBasket(userID string, items []model.BasketItem) error {
	if items == nil {
		items = make([]model.BasketItem, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensure(userID)
	if err != nil {
		return err
	}

	prev := sess.Basket
	sess.Basket = items
	if err := s.persist(); err != nil {
		sess.Basket = prev
		return err
	}

	return nil
}

// ClearBasket empties the user's basket.
func (s *Sessions) ClearBasket(userID string) error {
	return s.ReplaceBasket(userID, nil)
}

// Count returns the number of session records.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ensure returns the session for userID, creating and persisting an
// empty record when none exists. Callers must hold s.mu.
func (s *Sessions) ensure(userID string) (*model.Session, error) {
	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	sess := model.NewSession()
	s.sessions[userID] = sess
	if err := s.persist(); err != nil {
		delete(s.sessions, userID)
		return nil, err
	}

	return sess, nil
}

// persist rewrites the snapshot. Callers must hold s.mu.
func (s *Sessions) persist() error {
	return saveSnapshot(s.path, s.sessions)
}

// cloneSession copies the session's slices so callers cannot mutate
// stored state. Recipe documents themselves are treated as read-only.
func cloneSession(sess *model.Session) *model.Session {
	out := &model.Session{
		Recipes: make([]model.Recipe, len(sess.Recipes)),
		Basket:  make([]model.BasketItem, len(sess.Basket)),
	}
	copy(out.Recipes, sess.Recipes)
	copy(out.Basket, sess.Basket)
	return out
}
