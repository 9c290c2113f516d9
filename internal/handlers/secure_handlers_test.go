package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/security"
	"github.com/hanachat/contentguard/internal/storage"
)

// newSecureRouter wires a SecureDataHandler over an in-memory store.
func newSecureRouter(t *testing.T) chi.Router {
	t.Helper()

	engine := security.NewEngine("test-app-secret", constants.KDFIterations, nil)
	handler := NewSecureDataHandler(security.NewSecureStore(engine, storage.NewMemoryStore(), nil))

	r := chi.NewRouter()
	r.Route("/secure/{userID}", func(r chi.Router) {
		r.Get("/", handler.ListKeys)
		r.Put("/{key}", handler.Store)
		r.Get("/{key}", handler.Retrieve)
		r.Delete("/{key}", handler.Delete)
	})
	return r
}

func TestSecureDataHandler_StoreAndRetrieve(t *testing.T) {
	t.Run("stored values round trip through the api", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		storeReq := jsonRequest(t, http.MethodPut, "/secure/user-1/diary", map[string]interface{}{
			"value":   map[string]string{"entry": "今日の日記"},
			"options": map[string]string{"encryption_level": "sensitive"},
		})
		storeRec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(storeRec, storeReq)
		require.Equal(t, http.StatusCreated, storeRec.Code)

		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/secure/user-1/diary", nil))

		// Assert
		require.Equal(t, http.StatusOK, getRec.Code)

		var result struct {
			Key   string            `json:"key"`
			Value map[string]string `json:"value"`
		}
		decodeData(t, getRec, &result)
		assert.Equal(t, "diary", result.Key)
		assert.Equal(t, map[string]string{"entry": "今日の日記"}, result.Value)
	})

	t.Run("a missing value field is a validation error", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		req := jsonRequest(t, http.MethodPut, "/secure/user-1/diary", map[string]interface{}{
			"options": map[string]string{},
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("an unknown encryption level is rejected", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		req := jsonRequest(t, http.MethodPut, "/secure/user-1/diary", map[string]interface{}{
			"value":   "secret",
			"options": map[string]string{"encryption_level": "paranoid"},
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("an absent key is not found", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure/user-1/missing", nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeErrorCode(t, rec))
	})

	t.Run("users cannot read each other's keys", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		storeRec := httptest.NewRecorder()
		router.ServeHTTP(storeRec, jsonRequest(t, http.MethodPut, "/secure/user-1/diary", map[string]interface{}{
			"value": "secret",
		}))
		require.Equal(t, http.StatusCreated, storeRec.Code)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure/user-2/diary", nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSecureDataHandler_Delete(t *testing.T) {
	t.Run("deleted keys stop resolving", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		storeRec := httptest.NewRecorder()
		router.ServeHTTP(storeRec, jsonRequest(t, http.MethodPut, "/secure/user-1/diary", map[string]interface{}{
			"value": "secret",
		}))
		require.Equal(t, http.StatusCreated, storeRec.Code)

		// Act
		delRec := httptest.NewRecorder()
		router.ServeHTTP(delRec, httptest.NewRequest(http.MethodDelete, "/secure/user-1/diary", nil))

		// Assert
		require.Equal(t, http.StatusOK, delRec.Code)

		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/secure/user-1/diary", nil))
		assert.Equal(t, http.StatusNotFound, getRec.Code)
	})

	t.Run("deleting an absent key succeeds", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/secure/user-1/nothing", nil))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSecureDataHandler_ListKeys(t *testing.T) {
	t.Run("only the user's own keys are listed", func(t *testing.T) {
		// Arrange
		router := newSecureRouter(t)
		for _, target := range []string{"/secure/user-1/diary", "/secure/user-1/settings", "/secure/user-2/diary"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, jsonRequest(t, http.MethodPut, target, map[string]interface{}{"value": "v"}))
			require.Equal(t, http.StatusCreated, rec.Code)
		}
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secure/user-1/", nil))

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			Keys []string `json:"keys"`
		}
		decodeData(t, rec, &result)
		assert.ElementsMatch(t, []string{"diary", "settings"}, result.Keys)
	})
}
