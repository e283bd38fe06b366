// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where every
// dependency is assembled in one place:
//
//	main.go reads config → server.New() creates:
//	  sqlite.DB → TokenService/PasswordService
//	            → AuthService/HabitService/RecordService
//	            → AuthHandler/UserHandler/HabitHandler/RecordHandler
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (never
// the database). Keeping this out of main.go makes the server testable
// without running the binary.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/handler"
	"github.com/sakif/habit-tracker/internal/middleware"
	sqliteRepo "github.com/sakif/habit-tracker/internal/repository/sqlite"
	"github.com/sakif/habit-tracker/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown in Start, after in-flight requests drain.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, opening the database and wiring every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the full route tree.
//
// ROUTE STRUCTURE:
//
//	GET    /api/health                    → liveness probe (public)
//	POST   /api/auth/register             → create account (public)
//	POST   /api/auth/login                → issue token (public)
//	POST   /api/auth/logout               → clear cookie (public)
//	GET    /api/users/me                  → profile + level info
//	PUT    /api/users/me                  → change username
//	GET    /api/habits                    → list habits
//	POST   /api/habits                    → create habit
//	GET    /api/habits/presets            → built-in catalog
//	GET    /api/habits/{id}               → get habit
//	PUT    /api/habits/{id}               → partial update
//	DELETE /api/habits/{id}               → delete habit (records survive)
//	GET    /api/records                   → list records, ?from= &to=
//	POST   /api/records                   → upsert completion for a day
//	GET    /api/records/habit/{habitID}   → records for one habit
//	DELETE /api/records/{id}              → delete record, reverse XP
//
// Middleware order matters: RequestID and RealIP first so the logger sees
// them, Recoverer before our handlers so panics become 500s, RequireAuth
// only on the protected group.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	habitService := service.NewHabitService(s.db, s.logger)
	recordService := service.NewRecordService(s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(authService, s.logger)
	habitHandler := handler.NewHabitHandler(habitService, s.logger)
	recordHandler := handler.NewRecordHandler(recordService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/users/me", userHandler.HandleMe)
			r.Put("/users/me", userHandler.HandleUpdateMe)

			// "/habits/presets" must be declared before "/habits/{id}"
			// would otherwise swallow it; chi routes static segments
			// ahead of wildcards, but being explicit costs nothing.
			r.Get("/habits/presets", habitHandler.HandlePresets)
			r.Get("/habits", habitHandler.HandleList)
			r.Post("/habits", habitHandler.HandleCreate)
			r.Get("/habits/{id}", habitHandler.HandleGet)
			r.Put("/habits/{id}", habitHandler.HandleUpdate)
			r.Delete("/habits/{id}", habitHandler.HandleDelete)

			r.Get("/records", recordHandler.HandleList)
			r.Post("/records", recordHandler.HandleSubmit)
			r.Get("/records/habit/{habitID}", recordHandler.HandleListByHabit)
			r.Delete("/records/{id}", recordHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database (flushes the WAL, releases the file
// lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
