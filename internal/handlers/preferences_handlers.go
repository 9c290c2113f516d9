package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/service"
	"github.com/hanachat/contentguard/internal/utils"
)

// PreferencesHandler handles content preferences routes.
type PreferencesHandler struct {
	preferencesService *service.PreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(preferencesService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesService: preferencesService,
	}
}

// userIDParam extracts the user ID path parameter.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		utils.Error(w, http.StatusBadRequest, "validation_error", "User ID is required", nil)
		return "", false
	}
	return userID, true
}

// GetPreferences returns the user's preferences, creating the defaults
// for a user seen for the first time.
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	prefs, err := h.preferencesService.GetOrCreate(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, prefs)
}

// UpdatePreferences applies a rating change and filter switches.
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var update models.PreferencesUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	prefs, err := h.preferencesService.Update(r.Context(), userID, update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, prefs)
}

// AddCustomFilter registers a new custom filter for the user.
func (h *PreferencesHandler) AddCustomFilter(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var create models.CustomFilterCreate
	if err := utils.DecodeJSON(r, &create); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	created, err := h.preferencesService.AddCustomFilter(r.Context(), userID, create)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, created)
}

// RemoveCustomFilters removes custom filters by ID.
func (h *PreferencesHandler) RemoveCustomFilters(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var del models.CustomFilterDelete
	if err := utils.DecodeAndValidate(r, &del); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	removed, err := h.preferencesService.RemoveCustomFilters(r.Context(), userID, del.IDs)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// SetParentalControls replaces the user's parental-control block.
func (h *PreferencesHandler) SetParentalControls(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var controls models.ParentalControls
	if err := utils.DecodeJSON(r, &controls); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	prefs, err := h.preferencesService.SetParentalControls(r.Context(), userID, controls)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, prefs)
}

// SetPrivacySettings replaces the user's privacy settings block.
func (h *PreferencesHandler) SetPrivacySettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var settings models.PrivacySettings
	if err := utils.DecodeJSON(r, &settings); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	prefs, err := h.preferencesService.SetPrivacySettings(r.Context(), userID, settings)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, prefs)
}
