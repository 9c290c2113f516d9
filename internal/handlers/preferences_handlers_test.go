package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/filter"
	"github.com/hanachat/contentguard/internal/service"
	"github.com/hanachat/contentguard/internal/storage"
)

// newPreferencesRouter wires a PreferencesHandler over an in-memory
// store, mirroring the server's route layout.
func newPreferencesRouter(t *testing.T) chi.Router {
	t.Helper()

	rules, err := filter.NewRuleSet(filter.DefaultFilters())
	require.NoError(t, err)

	handler := NewPreferencesHandler(service.NewPreferencesService(storage.NewMemoryStore(), rules))

	r := chi.NewRouter()
	r.Route("/preferences/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetPreferences)
		r.Put("/", handler.UpdatePreferences)
		r.Post("/filters", handler.AddCustomFilter)
		r.Delete("/filters", handler.RemoveCustomFilters)
		r.Put("/parental-controls", handler.SetParentalControls)
		r.Put("/privacy", handler.SetPrivacySettings)
	})
	return r
}

func TestPreferencesHandler_GetPreferences(t *testing.T) {
	t.Run("a first visit creates the defaults", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preferences/user-1/", nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var prefs struct {
			UserID         string   `json:"user_id"`
			ContentRating  string   `json:"content_rating"`
			EnabledFilters []string `json:"enabled_filters"`
		}
		decodeData(t, rec, &prefs)
		assert.Equal(t, "user-1", prefs.UserID)
		assert.Equal(t, "general", prefs.ContentRating)
		assert.Len(t, prefs.EnabledFilters, 6)
	})
}

func TestPreferencesHandler_UpdatePreferences(t *testing.T) {
	t.Run("a rating change is applied and returned", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/", map[string]interface{}{
			"content_rating":  "teen",
			"disable_filters": []string{"spam"},
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var prefs struct {
			ContentRating  string   `json:"content_rating"`
			EnabledFilters []string `json:"enabled_filters"`
		}
		decodeData(t, rec, &prefs)
		assert.Equal(t, "teen", prefs.ContentRating)
		assert.NotContains(t, prefs.EnabledFilters, "spam")
	})

	t.Run("enabling an unknown filter is not found", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/", map[string]interface{}{
			"enable_filters": []string{"no_such_filter"},
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeErrorCode(t, rec))
	})

	t.Run("an invalid rating is a validation error", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/", map[string]interface{}{
			"content_rating": "adults_only",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, rec))
	})
}

func TestPreferencesHandler_CustomFilters(t *testing.T) {
	validBody := map[string]interface{}{
		"name":     "Secret Project",
		"category": "dialogue",
		"patterns": []string{"project starlight"},
		"severity": "high",
		"action":   "block",
	}

	t.Run("a registered filter is created and enabled", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPost, "/preferences/user-1/filters", validBody)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusCreated, rec.Code)

		var created struct {
			ID       string `json:"id"`
			IsActive bool   `json:"is_active"`
		}
		decodeData(t, rec, &created)
		assert.Contains(t, created.ID, "custom_")
		assert.True(t, created.IsActive)
	})

	t.Run("a malformed pattern is a validation error", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		body := map[string]interface{}{
			"name":     "Broken",
			"category": "dialogue",
			"patterns": []string{"[broken"},
			"severity": "high",
			"action":   "block",
		}
		req := jsonRequest(t, http.MethodPost, "/preferences/user-1/filters", body)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, rec))
	})

	t.Run("removal reports the removed count", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		createRec := httptest.NewRecorder()
		router.ServeHTTP(createRec, jsonRequest(t, http.MethodPost, "/preferences/user-1/filters", validBody))
		require.Equal(t, http.StatusCreated, createRec.Code)

		var created struct {
			ID string `json:"id"`
		}
		decodeData(t, createRec, &created)

		req := jsonRequest(t, http.MethodDelete, "/preferences/user-1/filters", map[string]interface{}{
			"ids": []string{created.ID, "unknown"},
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Removed int `json:"removed"`
		}
		decodeData(t, rec, &result)
		assert.Equal(t, 1, result.Removed)
	})
}

func TestPreferencesHandler_SetParentalControls(t *testing.T) {
	t.Run("the parental block is replaced", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/parental-controls", map[string]interface{}{
			"enabled":    true,
			"max_rating": "teen",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var prefs struct {
			ParentalControls struct {
				Enabled   bool   `json:"enabled"`
				MaxRating string `json:"max_rating"`
			} `json:"parental_controls"`
		}
		decodeData(t, rec, &prefs)
		assert.True(t, prefs.ParentalControls.Enabled)
		assert.Equal(t, "teen", prefs.ParentalControls.MaxRating)
	})

	t.Run("an unknown max rating is rejected", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/parental-controls", map[string]interface{}{
			"enabled":    true,
			"max_rating": "kids",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPreferencesHandler_SetPrivacySettings(t *testing.T) {
	t.Run("the privacy block is replaced", func(t *testing.T) {
		// Arrange
		router := newPreferencesRouter(t)
		req := jsonRequest(t, http.MethodPut, "/preferences/user-1/privacy", map[string]interface{}{
			"share_conversation_data": true,
			"allow_analytics":         true,
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var prefs struct {
			PrivacySettings struct {
				ShareConversationData bool `json:"share_conversation_data"`
				AllowAnalytics        bool `json:"allow_analytics"`
			} `json:"privacy_settings"`
		}
		decodeData(t, rec, &prefs)
		assert.True(t, prefs.PrivacySettings.ShareConversationData)
		assert.True(t, prefs.PrivacySettings.AllowAnalytics)
	})
}
