// Package service provides the application services that orchestrate
// the filter, security, and storage packages behind the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/filter"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/storage"
	"github.com/hanachat/contentguard/internal/utils"
)

// PreferencesService manages per-user content preferences: lazy default
// creation, rating changes, filter switches, custom filter registration,
// and parental controls. It implements filter.PreferencesProvider.
//
// Mutations of the same user's preferences are serialized by a per-user
// lock so concurrent updates cannot lose writes against the storage
// collaborator.
type PreferencesService struct {
	store storage.Store
	rules *filter.RuleSet

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewPreferencesService creates a preferences service.
func NewPreferencesService(store storage.Store, rules *filter.RuleSet) *PreferencesService {
	return &PreferencesService{
		store: store,
		rules: rules,
		locks: make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user.
func (s *PreferencesService) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// GetOrCreate returns the user's preferences, creating and persisting
// the defaults for a user seen for the first time.
func (s *PreferencesService) GetOrCreate(ctx context.Context, userID string) (*models.UserContentPreferences, error) {
	if userID == "" {
		return nil, utils.NewBadRequestError("user ID is required")
	}

	prefs, err := s.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock; a concurrent request may have created
	// the defaults already
	prefs, err = s.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	prefs = models.NewDefaultPreferences(userID, s.rules.BuiltinIDs())
	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", utils.MaskValue(userID)).
		Msg("Default content preferences created")

	return prefs, nil
}

// Update applies a rating change and filter switches to the user's
// preferences.
//
// Parameters:
//   - ctx: the request context
//   - userID: the user whose preferences change
//   - update: the requested changes; nil fields are left untouched
//
// Returns:
//   - *models.UserContentPreferences: the preferences after the update
//   - error: an AppError if validation or persistence failed
func (s *PreferencesService) Update(ctx context.Context, userID string, update models.PreferencesUpdate) (*models.UserContentPreferences, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.ContentRating != nil {
		prefs.ContentRating = models.ContentRating(*update.ContentRating)
	}

	for _, id := range update.EnableFilters {
		if !s.knownFilter(prefs, id) {
			return nil, utils.NewNotFoundError("ContentFilter", id)
		}
		if !prefs.FilterEnabled(id) {
			prefs.EnabledFilters = append(prefs.EnabledFilters, id)
		}
	}
	for _, id := range update.DisableFilters {
		prefs.EnabledFilters = removeString(prefs.EnabledFilters, id)
	}

	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", utils.MaskValue(userID)).
		Str("content_rating", string(prefs.ContentRating)).
		Int("enabled_filters", len(prefs.EnabledFilters)).
		Msg("Content preferences updated")

	return prefs, nil
}

// SetParentalControls replaces the user's parental-control block.
// Restriction conditions are validated against the closed predicate
// language before anything is persisted.
func (s *PreferencesService) SetParentalControls(ctx context.Context, userID string, controls models.ParentalControls) (*models.UserContentPreferences, error) {
	if controls.MaxRating != "" && !models.ValidRating(controls.MaxRating) {
		return nil, utils.NewValidationError("max_rating", fmt.Sprintf("unknown rating: %s", controls.MaxRating))
	}
	for i, cond := range controls.Restrictions {
		if err := utils.ValidateStruct(cond); err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("restrictions[%d]", i), err.Error())
		}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs.ParentalControls = controls

	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", utils.MaskValue(userID)).
		Bool("enabled", controls.Enabled).
		Str("max_rating", string(controls.MaxRating)).
		Msg("Parental controls updated")

	return prefs, nil
}

// SetPrivacySettings replaces the user's privacy settings block.
func (s *PreferencesService) SetPrivacySettings(ctx context.Context, userID string, settings models.PrivacySettings) (*models.UserContentPreferences, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs.PrivacySettings = settings

	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

// AddCustomFilter registers a new custom filter for the user. Every
// pattern is compiled before anything is persisted, so a filter with a
// malformed pattern is rejected as a whole.
//
// Returns:
//   - *models.ContentFilter: the registered filter with its assigned ID
//   - error: an AppError if validation, compilation, or persistence failed
func (s *PreferencesService) AddCustomFilter(ctx context.Context, userID string, create models.CustomFilterCreate) (*models.ContentFilter, error) {
	if err := utils.ValidateStruct(create); err != nil {
		return nil, err
	}

	// Fail-fast pattern validation at registration, not at scan time
	if _, err := filter.CompilePatterns(create.Patterns); err != nil {
		return nil, utils.NewValidationError("patterns", err.Error())
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(prefs.CustomFilters) >= constants.MaxCustomFilters {
		return nil, utils.NewBadRequestError(fmt.Sprintf("custom filter limit of %d reached", constants.MaxCustomFilters))
	}

	created := models.ContentFilter{
		ID:       "custom_" + uuid.NewString(),
		Name:     create.Name,
		Category: models.FilterCategory(create.Category),
		Patterns: create.Patterns,
		Severity: models.Severity(create.Severity),
		Action:   models.FilterAction(create.Action),
		IsActive: true,
	}

	prefs.CustomFilters = append(prefs.CustomFilters, created)
	prefs.EnabledFilters = append(prefs.EnabledFilters, created.ID)

	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", utils.MaskValue(userID)).
		Str("filter_id", created.ID).
		Str("severity", string(created.Severity)).
		Msg("Custom filter registered")

	return &created, nil
}

// RemoveCustomFilters removes the user's custom filters with the given
// IDs. Unknown IDs are ignored; the count of removed filters is
// returned.
func (s *PreferencesService) RemoveCustomFilters(ctx context.Context, userID string, ids []string) (int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.getOrCreateLocked(ctx, userID)
	if err != nil {
		return 0, err
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	kept := prefs.CustomFilters[:0]
	removed := 0
	for _, cf := range prefs.CustomFilters {
		if requested[cf.ID] {
			prefs.EnabledFilters = removeString(prefs.EnabledFilters, cf.ID)
			s.rules.ForgetCustom(cf.ID)
			removed++
			continue
		}
		kept = append(kept, cf)
	}
	prefs.CustomFilters = kept

	if removed == 0 {
		return 0, nil
	}

	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return 0, err
	}

	return removed, nil
}

// Delete removes the user's preferences entirely. The next scan will
// recreate the defaults.
func (s *PreferencesService) Delete(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	prefs, err := s.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if prefs != nil {
		for _, cf := range prefs.CustomFilters {
			s.rules.ForgetCustom(cf.ID)
		}
	}

	return s.store.DeleteUserPreferences(ctx, userID)
}

// getOrCreateLocked is GetOrCreate for callers already holding the
// user's lock.
func (s *PreferencesService) getOrCreateLocked(ctx context.Context, userID string) (*models.UserContentPreferences, error) {
	if userID == "" {
		return nil, utils.NewBadRequestError("user ID is required")
	}

	prefs, err := s.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	prefs = models.NewDefaultPreferences(userID, s.rules.BuiltinIDs())
	if err := s.store.SaveUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// knownFilter reports whether a filter ID names a built-in filter or
// one of the user's custom filters.
func (s *PreferencesService) knownFilter(prefs *models.UserContentPreferences, id string) bool {
	for _, builtin := range s.rules.BuiltinIDs() {
		if builtin == id {
			return true
		}
	}
	for _, cf := range prefs.CustomFilters {
		if cf.ID == id {
			return true
		}
	}
	return false
}

// removeString removes every occurrence of v from s, preserving order.
func removeString(s []string, v string) []string {
	out := s[:0]
	for _, item := range s {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
