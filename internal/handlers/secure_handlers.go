package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/security"
	"github.com/hanachat/contentguard/internal/utils"
)

// SecureDataHandler handles the secure storage routes.
type SecureDataHandler struct {
	secureStore *security.SecureStore
}

// NewSecureDataHandler creates a new SecureDataHandler.
func NewSecureDataHandler(secureStore *security.SecureStore) *SecureDataHandler {
	return &SecureDataHandler{
		secureStore: secureStore,
	}
}

// secureStoreRequest is the body of a secure store call: the value to
// protect plus the protection options.
type secureStoreRequest struct {
	Value   json.RawMessage     `json:"value" validate:"required"`
	Options models.StoreOptions `json:"options"`
}

// Store encrypts and persists a value under the user's key.
func (h *SecureDataHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var req secureStoreRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// The raw message round-trips through the facade unchanged
	var value interface{}
	if err := json.Unmarshal(req.Value, &value); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation_error", "Value must be valid JSON", nil)
		return
	}

	if err := h.secureStore.Store(r.Context(), userID, key, value, req.Options); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]string{"key": key})
}

// Retrieve decrypts and returns the value at the user's key.
func (h *SecureDataHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var value interface{}
	found, err := h.secureStore.Retrieve(r.Context(), userID, key, &value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if !found {
		utils.ErrorFromAppError(w, utils.NewNotFoundError("SecureData", key))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": value,
	})
}

// Delete removes the value at the user's key. Deleting an absent key
// succeeds.
func (h *SecureDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if err := h.secureStore.Delete(r.Context(), userID, key); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"deleted": key})
}

// ListKeys returns the keys the user has data stored under.
func (h *SecureDataHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	keys, err := h.secureStore.ListKeys(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
}
