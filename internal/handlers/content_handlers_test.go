package handlers

import (
	"bytes"
	"encoding/json"
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

// decodeData unmarshals the data field of a success envelope into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

// decodeErrorCode returns the code field of an error envelope.
func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.False(t, envelope.Success)
	return envelope.Error.Code
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// newContentRouter wires a ContentHandler over in-memory services the
// way the real server does.
func newContentRouter(t *testing.T) chi.Router {
	t.Helper()

	rules, err := filter.NewRuleSet(filter.DefaultFilters())
	require.NoError(t, err)

	guidelines := filter.DefaultGuidelineTable()
	prefs := service.NewPreferencesService(storage.NewMemoryStore(), rules)
	scanner := filter.NewScanner(rules, guidelines, prefs, nil, filter.DefaultScannerConfig())
	validator := filter.NewRatingValidator(scanner, filter.NewEmotionEstimator(), guidelines)
	handler := NewContentHandler(service.NewContentService(scanner, validator))

	r := chi.NewRouter()
	r.Post("/scan", handler.ScanContent)
	r.Post("/validate", handler.ValidateRating)
	return r
}

func TestContentHandler_ScanContent(t *testing.T) {
	t.Run("clean content is allowed", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/scan", map[string]string{
			"content":  "こんにちは、今日も良い一日を",
			"category": "dialogue",
			"user_id":  "user-1",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			IsAllowed      bool   `json:"is_allowed"`
			DisplayContent string `json:"display_content"`
		}
		decodeData(t, rec, &result)
		assert.True(t, result.IsAllowed)
		assert.Equal(t, "こんにちは、今日も良い一日を", result.DisplayContent)
	})

	t.Run("inadmissible content is a verdict, not an error", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/scan", map[string]string{
			"content":  "call me at 090-1234-5678",
			"category": "dialogue",
			"user_id":  "user-1",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			IsAllowed bool `json:"is_allowed"`
		}
		decodeData(t, rec, &result)
		assert.False(t, result.IsAllowed)
	})

	t.Run("blocked content carries the localized fallback text", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/scan", map[string]string{
			"content":  "call me at 090-1234-5678",
			"category": "dialogue",
			"user_id":  "user-1",
			"locale":   "en",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var result struct {
			IsAllowed      bool   `json:"is_allowed"`
			DisplayContent string `json:"display_content"`
		}
		decodeData(t, rec, &result)
		assert.False(t, result.IsAllowed)
		assert.Equal(t, filter.BlockedFallback("en"), result.DisplayContent)
		assert.NotContains(t, result.DisplayContent, "090-1234-5678")
	})

	t.Run("a missing user ID is a validation error", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/scan", map[string]string{
			"content":  "hello",
			"category": "dialogue",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, rec))
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContentHandler_ValidateRating(t *testing.T) {
	t.Run("clean content validates at the requested rating", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/validate", map[string]string{
			"content":          "今日は良い天気です",
			"requested_rating": "general",
			"user_id":          "user-1",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code)

		var validation struct {
			IsValid         bool   `json:"is_valid"`
			SuggestedRating string `json:"suggested_rating"`
		}
		decodeData(t, rec, &validation)
		assert.True(t, validation.IsValid)
		assert.Equal(t, "general", validation.SuggestedRating)
	})

	t.Run("an unknown requested rating is rejected", func(t *testing.T) {
		// Arrange
		router := newContentRouter(t)
		req := jsonRequest(t, http.MethodPost, "/validate", map[string]string{
			"content":          "hello",
			"requested_rating": "adults_only",
			"user_id":          "user-1",
		})
		rec := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
