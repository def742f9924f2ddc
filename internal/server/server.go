// Package server wires the dependency graph and owns the HTTP lifecycle:
// which routes exist, which middleware guards them, and how the process
// starts and shuts down.
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

	"github.com/chillgc/tierlist/internal/auth"
	"github.com/chillgc/tierlist/internal/discord"
	"github.com/chillgc/tierlist/internal/handler"
	"github.com/chillgc/tierlist/internal/middleware"
	sqliteRepo "github.com/chillgc/tierlist/internal/repository/sqlite"
	"github.com/chillgc/tierlist/internal/service"
	"github.com/chillgc/tierlist/internal/session"
)

// Config holds everything the server needs, loaded in cmd/server/main.go.
type Config struct {
	Port            int
	DBPath          string
	SessionSecret   string
	Discord         discord.Config
	AdminDiscordIDs []string // Discord IDs granted the admin flag at login
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: storage → services → handlers
// → routes. Each layer only receives the interfaces it needs.
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

// setupRoutes configures middleware, builds the services, and registers
// every route.
//
//	GET    /login                   → begin OAuth flow
//	GET    /callback                → complete OAuth flow
//	GET    /logout                  → destroy session
//	GET    /api/me                  → current user          (auth)
//	GET    /api/people              → active roster         (auth)
//	POST   /api/people              → add person            (admin)
//	DELETE /api/people/{id}         → soft-delete person    (admin)
//	GET    /api/rankings            → own rankings          (auth)
//	POST   /api/rankings            → save a ranking        (auth)
//	DELETE /api/rankings/{personID} → clear a ranking       (auth)
//	GET    /api/results             → leaderboard           (auth)
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	provider := discord.New(s.config.Discord)
	sessionStore := s.db.Sessions()
	sessions := session.NewManager(sessionStore, tokens, s.logger)

	authSvc := service.NewAuthService(
		provider,
		s.db.Users(),
		sessionStore,
		s.config.Discord.RequiredGuildID,
		s.config.AdminDiscordIDs,
		s.logger,
	)
	rosterSvc := service.NewRosterService(s.db.People(), provider, s.logger)
	rankingSvc := service.NewRankingService(s.db.People(), s.db.Rankings(), s.logger)
	leaderboardSvc := service.NewLeaderboardService(s.db.People(), s.db.Rankings())

	authHandler := handler.NewAuthHandler(authSvc, sessions, s.logger)
	peopleHandler := handler.NewPeopleHandler(rosterSvc, s.logger)
	rankingsHandler := handler.NewRankingsHandler(rankingSvc, s.logger)
	resultsHandler := handler.NewResultsHandler(leaderboardSvc, s.logger)

	// Middleware order: request identity and panic recovery first, then
	// logging, then session binding — everything below can assume a
	// session exists.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(sessions.Middleware)

	s.router.Get("/login", authHandler.HandleLogin)
	s.router.Get("/callback", authHandler.HandleCallback)
	s.router.Get("/logout", authHandler.HandleLogout)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(handler.RequireUser(authSvc))

		r.Get("/me", authHandler.HandleMe)
		r.Get("/people", peopleHandler.HandleList)
		r.Get("/rankings", rankingsHandler.HandleList)
		r.Post("/rankings", rankingsHandler.HandleSet)
		r.Delete("/rankings/{personID}", rankingsHandler.HandleClear)
		r.Get("/results", resultsHandler.HandleResults)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAdmin())
			r.Post("/people", peopleHandler.HandleCreate)
			r.Delete("/people/{id}", peopleHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
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
