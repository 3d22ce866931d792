package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pantrybox/pantrybox/internal/middleware"
	"github.com/pantrybox/pantrybox/internal/store"
	"github.com/pantrybox/pantrybox/internal/token"
)

// testEnv wires real stores and the real route table against a
// temporary data directory.
type testEnv struct {
	creds    *store.Credentials
	sessions *store.Sessions
	tokens   token.Service
	router   *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()

	creds, err := store.OpenCredentials(filepath.Join(dir, "users.json"), nil)
	if err != nil {
		t.Fatalf("OpenCredentials failed: %v", err)
	}
	sessions, err := store.OpenSessions(filepath.Join(dir, "sessions.json"))
	if err != nil {
		t.Fatalf("OpenSessions failed: %v", err)
	}

	tokens := token.NewJWTService([]byte("test-secret"), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New()
	healthHandler := NewHealthHandler(creds, sessions)
	authHandler := NewAuthHandler(creds, tokens, logger)
	recipeHandler := NewRecipeHandler(sessions, logger)
	basketHandler := NewBasketHandler(sessions, logger)
	userHandler := NewUserHandler(creds, logger)

	gate := middleware.Gate(tokens, logger)

	r := chi.NewRouter()
	r.Get("/api/health", healthHandler.Health)
	r.Post("/api/login", authHandler.Login)
	r.With(gate).Post("/api/admin/users", userHandler.Create)
	r.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/api/verify", authHandler.Verify)
		r.Route("/api/recipes", func(r chi.Router) {
			r.Get("/", recipeHandler.List)
			r.Post("/", recipeHandler.Upsert)
			r.Delete("/{id}", recipeHandler.Delete)
		})
		r.Route("/api/basket", func(r chi.Router) {
			r.Get("/", basketHandler.Get)
			r.Post("/", basketHandler.Replace)
			r.Delete("/", basketHandler.Clear)
		})
	})
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return &testEnv{
		creds:    creds,
		sessions: sessions,
		tokens:   tokens,
		router:   r,
	}
}

// do performs a request against the test router. A non-empty token is
// sent as a bearer Authorization header.
func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()

	e.router.ServeHTTP(rec, req)
	return rec
}

// login creates the account if needed and returns a bearer token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	if _, ok := e.creds.Find(username); !ok {
		if _, err := e.creds.Create(username, password, username); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	rec := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// TestRecipeLifecycle walks the full flow: create account, login,
// empty list, save, list, delete, empty list again.
func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.creds.Create("thomas", "shopping123", "Thomas"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "thomas",
		"password": "shopping123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d: %s", rec.Code, rec.Body.String())
	}
	login := decodeJSON[struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}](t, rec)
	if login.Token == "" {
		t.Fatal("expected a token")
	}
	if login.User.Name != "Thomas" {
		t.Errorf("expected display name Thomas, got %q", login.User.Name)
	}

	// Fresh account starts with no recipes.
	rec = env.do(t, http.MethodGet, "/api/recipes", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if recipes := decodeJSON[[]map[string]any](t, rec); len(recipes) != 0 {
		t.Fatalf("expected empty recipe list, got %v", recipes)
	}

	// Save a recipe.
	rec = env.do(t, http.MethodPost, "/api/recipes", login.Token, map[string]any{
		"id":   "r1",
		"name": "Soup",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected save 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := decodeJSON[struct {
		Success bool           `json:"success"`
		Recipe  map[string]any `json:"recipe"`
	}](t, rec)
	if !saved.Success || saved.Recipe["name"] != "Soup" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	// The list now holds exactly the saved recipe.
	rec = env.do(t, http.MethodGet, "/api/recipes", login.Token, nil)
	recipes := decodeJSON[[]map[string]any](t, rec)
	if len(recipes) != 1 || recipes[0]["id"] != "r1" || recipes[0]["name"] != "Soup" {
		t.Fatalf("unexpected recipe list: %v", recipes)
	}

	// Delete it and the list is empty again.
	rec = env.do(t, http.MethodDelete, "/api/recipes/r1", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected delete 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/recipes", login.Token, nil)
	if recipes := decodeJSON[[]map[string]any](t, rec); len(recipes) != 0 {
		t.Fatalf("expected empty list after delete, got %v", recipes)
	}
}

func TestBasketEndpoints(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "thomas", "shopping123")

	rec := env.do(t, http.MethodGet, "/api/basket", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if items := decodeJSON[[]any](t, rec); len(items) != 0 {
		t.Fatalf("expected empty basket, got %v", items)
	}

	rec = env.do(t, http.MethodPost, "/api/basket", tok, map[string]any{
		"basket": []map[string]any{{"name": "Milk"}, {"name": "Eggs"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected replace 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/basket", tok, nil)
	items := decodeJSON[[]map[string]any](t, rec)
	if len(items) != 2 || items[0]["name"] != "Milk" {
		t.Fatalf("unexpected basket: %v", items)
	}

	// Replace is wholesale.
	rec = env.do(t, http.MethodPost, "/api/basket", tok, map[string]any{
		"basket": []map[string]any{{"name": "Bread"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected replace 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/basket", tok, nil)
	items = decodeJSON[[]map[string]any](t, rec)
	if len(items) != 1 || items[0]["name"] != "Bread" {
		t.Fatalf("expected wholesale replace, got %v", items)
	}

	rec = env.do(t, http.MethodDelete, "/api/basket", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected clear 200, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/basket", tok, nil)
	if items := decodeJSON[[]any](t, rec); len(items) != 0 {
		t.Fatalf("expected empty basket after clear, got %v", items)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/verify"},
		{http.MethodGet, "/api/recipes"},
		{http.MethodPost, "/api/recipes"},
		{http.MethodDelete, "/api/recipes/r1"},
		{http.MethodGet, "/api/basket"},
		{http.MethodPost, "/api/basket"},
		{http.MethodDelete, "/api/basket"},
		{http.MethodPost, "/api/admin/users"},
	}

	for _, p := range paths {
		rec := env.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/api/login", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
