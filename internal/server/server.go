// Package server wires the contentguard components together and manages
// the HTTP server lifecycle: initialization, startup, periodic
// maintenance, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/auth"
	"github.com/hanachat/contentguard/internal/config"
	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/filter"
	"github.com/hanachat/contentguard/internal/handlers"
	"github.com/hanachat/contentguard/internal/security"
	"github.com/hanachat/contentguard/internal/service"
	"github.com/hanachat/contentguard/internal/storage"
	"github.com/hanachat/contentguard/internal/utils/ratelimit"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// ContentHandler manages scanning and rating validation endpoints
	ContentHandler *handlers.ContentHandler

	// PreferencesHandler manages content preferences endpoints
	PreferencesHandler *handlers.PreferencesHandler

	// SecureDataHandler manages the secure storage endpoints
	SecureDataHandler *handlers.SecureDataHandler

	// PrivacyHandler manages the data-subject privacy endpoints
	PrivacyHandler *handlers.PrivacyHandler

	// AuditHandler manages the audit log endpoints
	AuditHandler *handlers.AuditHandler

	// HealthHandler serves the health endpoint
	HealthHandler *handlers.HealthHandler
}

// Server represents the contentguard API server. It owns the component
// graph and the underlying HTTP server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router     chi.Router
	httpServer *http.Server

	store      storage.Store
	sqlStore   *storage.SQLStore
	auditLog   *security.AuditLog
	jwtService *auth.JWTService
	limiters   *ratelimit.Store
}

// NewServer creates a new server instance with all required components.
// Initialization order follows the dependency graph: storage → audit →
// encryption → rule set → services → handlers → routes.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupStorage(); err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	if err := s.setupComponents(); err != nil {
		return nil, fmt.Errorf("failed to set up components: %w", err)
	}

	s.setupRateLimits()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupStorage initializes the storage collaborator selected by the
// configuration and wraps it with the timeout and retry decorator.
func (s *Server) setupStorage() error {
	switch s.Config.Storage.Backend {
	case "sql":
		sqlStore, err := storage.OpenSQLStore(&s.Config.Storage)
		if err != nil {
			return err
		}
		if err := sqlStore.EnsureSchema(context.Background()); err != nil {
			return err
		}
		s.sqlStore = sqlStore
		s.store = storage.NewRetryingStoreWithTimeout(sqlStore, s.Config.Storage.Timeout)
	default:
		s.store = storage.NewRetryingStoreWithTimeout(storage.NewMemoryStore(), s.Config.Storage.Timeout)
	}

	log.Info().
		Str("backend", s.Config.Storage.Backend).
		Msg("Storage initialized")

	return nil
}

// setupComponents builds the filter and security component graph and
// the handlers on top of it.
func (s *Server) setupComponents() error {
	rules, err := filter.NewRuleSet(filter.DefaultFilters())
	if err != nil {
		return fmt.Errorf("failed to compile built-in filters: %w", err)
	}

	guidelines := filter.DefaultGuidelineTable()

	preferencesService := service.NewPreferencesService(s.store, rules)

	scannerConfig := filter.ScannerConfig{
		ConfidenceCutoff: s.Config.Scanner.ConfidenceCutoff,
		PenaltyCritical:  s.Config.Scanner.PenaltyCritical,
		PenaltyHigh:      s.Config.Scanner.PenaltyHigh,
		PenaltyMedium:    s.Config.Scanner.PenaltyMedium,
		PenaltyLow:       s.Config.Scanner.PenaltyLow,
		PenaltyDefault:   s.Config.Scanner.PenaltyDefault,
		PenaltyLength:    constants.PenaltyLength,
	}

	scanner := filter.NewScanner(rules, guidelines, preferencesService, filter.NewLogReporter(), scannerConfig)
	validator := filter.NewRatingValidator(scanner, filter.NewEmotionEstimator(), guidelines)
	contentService := service.NewContentService(scanner, validator)

	s.auditLog = security.NewAuditLog()
	engine := security.NewEngine(s.Config.Security.AppSecret, s.Config.Security.KDFIterations, s.auditLog)
	secureStore := security.NewSecureStore(engine, s.store, s.auditLog)
	compliance := security.NewComplianceService(s.store, s.auditLog)

	s.jwtService = auth.NewJWTService(&s.Config.JWT)

	s.Handlers = &Handlers{
		ContentHandler:     handlers.NewContentHandler(contentService),
		PreferencesHandler: handlers.NewPreferencesHandler(preferencesService),
		SecureDataHandler:  handlers.NewSecureDataHandler(secureStore),
		PrivacyHandler:     handlers.NewPrivacyHandler(compliance),
		AuditHandler:       handlers.NewAuditHandler(s.auditLog),
		HealthHandler:      handlers.NewHealthHandler(s.healthChecker(), s.Config.App.Version),
	}

	return nil
}

// healthChecker returns the storage health probe, or nil for the
// in-memory backend.
func (s *Server) healthChecker() handlers.HealthChecker {
	if s.sqlStore != nil {
		return s.sqlStore
	}
	return nil
}

// setupRateLimits configures the per-category token bucket rates.
func (s *Server) setupRateLimits() {
	s.limiters = ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 10, Burst: 20}, 10*time.Minute)
	s.limiters.SetRate(constants.RateCategoryScan, ratelimit.Rate{RequestsPerSecond: 20, Burst: 40})
	s.limiters.SetRate(constants.RateCategorySecure, ratelimit.Rate{RequestsPerSecond: 10, Burst: 20})
	s.limiters.SetRate(constants.RateCategoryPrivacy, ratelimit.Rate{RequestsPerSecond: 1, Burst: 3})
}

// Start starts the HTTP server and blocks until an error occurs or a
// shutdown signal is received.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests before closing the storage backend.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	if s.sqlStore != nil {
		if err := s.sqlStore.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage database")
		}
	}

	return nil
}

// SetupMaintenanceTasks starts the periodic audit retention sweep.
func (s *Server) SetupMaintenanceTasks() {
	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		for range ticker.C {
			if removed := s.auditLog.Cleanup(); removed > 0 {
				log.Info().Int("count", removed).Msg("Cleaned up expired audit entries")
			}
		}
	}()
}
