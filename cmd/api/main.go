// Package main is the entrypoint for the PantryBox API server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pantrybox/pantrybox/internal/config"
	"github.com/pantrybox/pantrybox/internal/handler"
	"github.com/pantrybox/pantrybox/internal/middleware"
	"github.com/pantrybox/pantrybox/internal/server"
	"github.com/pantrybox/pantrybox/internal/store"
	"github.com/pantrybox/pantrybox/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Open stores. Seeding only applies on first run, when no
	// credential snapshot exists yet.
	var seed []store.SeedUser
	if cfg.SeedDemoUsers {
		seed = store.DemoUsers()
	}

	creds, err := store.OpenCredentials(filepath.Join(cfg.DataDir, "users.json"), seed)
	if err != nil {
		logger.Error("failed to open credential store", "error", err)
		os.Exit(1)
	}

	sessions, err := store.OpenSessions(filepath.Join(cfg.DataDir, "sessions.json"))
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}

	logger.Info("stores loaded",
		"data_dir", cfg.DataDir,
		"users", creds.Count(),
		"sessions", sessions.Count(),
	)

	// Initialize token service
	tokens := token.NewJWTService([]byte(cfg.TokenSecret), cfg.TokenTTL)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(creds, sessions)
	authHandler := handler.NewAuthHandler(creds, tokens, logger)
	recipeHandler := handler.NewRecipeHandler(sessions, logger)
	basketHandler := handler.NewBasketHandler(sessions, logger)
	userHandler := handler.NewUserHandler(creds, logger)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, recipeHandler, basketHandler, userHandler, tokens, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"admin_create_open", cfg.OpenAdminCreate,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	recipeHandler *handler.RecipeHandler,
	basketHandler *handler.BasketHandler,
	userHandler *handler.UserHandler,
	tokens token.Service,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Root info endpoint
	r.Get("/", h.Hello)

	// Public endpoints
	r.Get("/api/health", healthHandler.Health)
	r.Post("/api/login", authHandler.Login)

	gate := middleware.Gate(tokens, logger)

	// Account creation. Default requires a valid token;
	// OPEN_ADMIN_CREATE opts into leaving the route unauthenticated.
	if cfg.OpenAdminCreate {
		logger.Warn("admin user creation is unauthenticated (OPEN_ADMIN_CREATE=true)")
		r.Post("/api/admin/users", userHandler.Create)
	} else {
		r.With(gate).Post("/api/admin/users", userHandler.Create)
	}

	// Authenticated endpoints
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

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
