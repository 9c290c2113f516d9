package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/security"
)

// newAuditRouter wires an AuditHandler over a seeded audit log.
func newAuditRouter(t *testing.T) (chi.Router, *security.AuditLog) {
	t.Helper()

	audit := security.NewAuditLog()
	handler := NewAuditHandler(audit)

	r := chi.NewRouter()
	r.Get("/logs", handler.QueryLogs)
	r.Post("/cleanup", handler.Cleanup)
	return r, audit
}

func TestAuditHandler_QueryLogs(t *testing.T) {
	t.Run("entries are returned newest first with a count", func(t *testing.T) {
		// Arrange
		router, audit := newAuditRouter(t)
		audit.Record(models.NewAuditEntry("alice", "encryption", "c-1", models.AuditSuccess, nil))
		audit.Record(models.NewAuditEntry("bob", "decryption", "c-2", models.AuditSuccess, nil))
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Entries []models.AuditEntry `json:"entries"`
			Count   int                 `json:"count"`
		}
		decodeData(t, rec, &result)
		require.Equal(t, 2, result.Count)
		assert.Equal(t, "bob", result.Entries[0].UserID)
		assert.Equal(t, "alice", result.Entries[1].UserID)
	})

	t.Run("user and action parameters narrow the result", func(t *testing.T) {
		// Arrange
		router, audit := newAuditRouter(t)
		audit.Record(models.NewAuditEntry("alice", "encryption", "c-1", models.AuditSuccess, nil))
		audit.Record(models.NewAuditEntry("alice", "decryption", "c-1", models.AuditSuccess, nil))
		audit.Record(models.NewAuditEntry("bob", "encryption", "c-2", models.AuditSuccess, nil))
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?user_id=alice&action=encryption", nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Entries []models.AuditEntry `json:"entries"`
			Count   int                 `json:"count"`
		}
		decodeData(t, rec, &result)
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "alice", result.Entries[0].UserID)
		assert.Equal(t, "encryption", result.Entries[0].Action)
	})

	t.Run("a malformed start date is a validation error", func(t *testing.T) {
		// Arrange
		router, _ := newAuditRouter(t)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?start_date=yesterday", nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, rec))
	})

	t.Run("a future start date matches nothing", func(t *testing.T) {
		// Arrange
		router, audit := newAuditRouter(t)
		audit.Record(models.NewAuditEntry("alice", "encryption", "c-1", models.AuditSuccess, nil))
		start := time.Now().Add(time.Hour).Format(time.RFC3339)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?start_date="+start, nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Count int `json:"count"`
		}
		decodeData(t, rec, &result)
		assert.Zero(t, result.Count)
	})
}

func TestAuditHandler_Cleanup(t *testing.T) {
	t.Run("expired entries are removed and counted", func(t *testing.T) {
		// Arrange
		router, audit := newAuditRouter(t)
		stale := models.NewAuditEntry("alice", "encryption", "c-1", models.AuditSuccess, nil)
		stale.Timestamp = time.Now().Add(-31 * 24 * time.Hour)
		audit.Record(stale)
		audit.Record(models.NewAuditEntry("alice", "decryption", "c-1", models.AuditSuccess, nil))
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cleanup", nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Removed int `json:"removed"`
		}
		decodeData(t, rec, &result)
		assert.Equal(t, 1, result.Removed)
		assert.Equal(t, 1, audit.Len())
	})
}
