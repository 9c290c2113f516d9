package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanachat/contentguard/internal/auth"
	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/middleware"
	"github.com/hanachat/contentguard/internal/utils"
)

// SetupRoutes configures the router hierarchy: base middleware, the
// unprotected health endpoint, the public content and preferences API,
// and the JWT-protected privacy and audit API.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.CORS(&s.Config.CORS))
	r.Use(middleware.SecurityHeaders())

	// Health and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.Handlers.HealthHandler.Health)

		r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Content scanning
		r.Route("/content", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateCategoryScan))

			r.Post("/scan", s.Handlers.ContentHandler.ScanContent)
			r.Post("/validate", s.Handlers.ContentHandler.ValidateRating)
		})

		// Content preferences
		r.Route("/preferences/{userID}", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateCategoryScan))

			r.Get("/", s.Handlers.PreferencesHandler.GetPreferences)
			r.Put("/", s.Handlers.PreferencesHandler.UpdatePreferences)
			r.Post("/filters", s.Handlers.PreferencesHandler.AddCustomFilter)
			r.Delete("/filters", s.Handlers.PreferencesHandler.RemoveCustomFilters)
			r.Put("/parental-controls", s.Handlers.PreferencesHandler.SetParentalControls)
			r.Put("/privacy", s.Handlers.PreferencesHandler.SetPrivacySettings)
		})

		// Secure storage
		r.Route("/secure/{userID}", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateCategorySecure))

			r.Get("/", s.Handlers.SecureDataHandler.ListKeys)
			r.Put("/{key}", s.Handlers.SecureDataHandler.Store)
			r.Get("/{key}", s.Handlers.SecureDataHandler.Retrieve)
			r.Delete("/{key}", s.Handlers.SecureDataHandler.Delete)
		})

		// Privacy routes (privacy role required)
		r.Route("/privacy", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateCategoryPrivacy))
			r.Use(middleware.JWTAuth(s.jwtService))
			r.Use(middleware.RequireRole(auth.RolePrivacy))

			r.Post("/export", s.Handlers.PrivacyHandler.ExportData)
			r.Post("/delete", s.Handlers.PrivacyHandler.DeleteData)
			r.Get("/report/{userID}", s.Handlers.PrivacyHandler.ComplianceReport)
		})

		// Audit routes (audit role required)
		r.Route("/audit", func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateCategoryPrivacy))
			r.Use(middleware.JWTAuth(s.jwtService))
			r.Use(middleware.RequireRole(auth.RoleAudit))

			r.Get("/logs", s.Handlers.AuditHandler.QueryLogs)
			r.Post("/cleanup", s.Handlers.AuditHandler.Cleanup)
		})
	})

	s.router = r
}
