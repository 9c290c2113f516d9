package models

import (
	"github.com/hanachat/contentguard/internal/constants"
)

// PolicyField names a context value a policy condition can inspect.
type PolicyField string

// Fields available to policy conditions
const (
	PolicyFieldRating     PolicyField = "rating"
	PolicyFieldCategory   PolicyField = "category"
	PolicyFieldHourOfDay  PolicyField = "hour_of_day"
	PolicyFieldContentLen PolicyField = "content_length"
)

// PolicyOperator is a comparison applied by a policy condition.
type PolicyOperator string

// Available policy operators
const (
	PolicyOpEquals    PolicyOperator = "eq"
	PolicyOpNotEquals PolicyOperator = "neq"
	PolicyOpAtMost    PolicyOperator = "lte"
	PolicyOpAtLeast   PolicyOperator = "gte"
)

// PolicyCondition is one comparison in the closed predicate language
// used for parental-control restrictions. Conditions are plain data
// evaluated by a safe interpreter; they are never executable code.
type PolicyCondition struct {
	Field    PolicyField    `json:"field" validate:"required,oneof=rating category hour_of_day content_length"`
	Operator PolicyOperator `json:"operator" validate:"required,oneof=eq neq lte gte"`
	Value    string         `json:"value" validate:"required"`
}

// ParentalControls restricts what a supervised user may see.
type ParentalControls struct {
	// Enabled turns parental supervision on for the user
	Enabled bool `json:"enabled"`

	// MaxRating caps the rating regardless of the user's own choice
	MaxRating ContentRating `json:"max_rating,omitempty"`

	// Restrictions are additional conditions that must all hold for
	// content to be admissible
	Restrictions []PolicyCondition `json:"restrictions,omitempty"`
}

// PrivacySettings records the user's data-handling choices.
type PrivacySettings struct {
	// ShareConversationData permits conversation bodies in exports
	ShareConversationData bool `json:"share_conversation_data"`

	// AllowAnalytics permits scan metadata aggregation
	AllowAnalytics bool `json:"allow_analytics"`

	// RequireEncryption forces the sensitive encryption level for all
	// stored data belonging to this user
	RequireEncryption bool `json:"require_encryption"`
}

// UserContentPreferences holds the per-user content-security
// configuration. One instance exists per user, created lazily on the
// first scan request and persisted after every mutation.
type UserContentPreferences struct {
	UserID           string                 `json:"user_id"`
	ContentRating    ContentRating          `json:"content_rating"`
	EnabledFilters   []string               `json:"enabled_filters"`
	CustomFilters    []ContentFilter        `json:"custom_filters"`
	ParentalControls ParentalControls       `json:"parental_controls"`
	PrivacySettings  PrivacySettings        `json:"privacy_settings"`
}

// NewDefaultPreferences creates preferences for a user who has never
// configured anything: general rating, every built-in filter enabled,
// no custom filters.
func NewDefaultPreferences(userID string, builtinFilterIDs []string) *UserContentPreferences {
	enabled := make([]string, len(builtinFilterIDs))
	copy(enabled, builtinFilterIDs)

	return &UserContentPreferences{
		UserID:         userID,
		ContentRating:  RatingGeneral,
		EnabledFilters: enabled,
		CustomFilters:  []ContentFilter{},
		ParentalControls: ParentalControls{
			Enabled: false,
		},
		PrivacySettings: PrivacySettings{
			ShareConversationData: false,
			AllowAnalytics:        false,
			RequireEncryption:     false,
		},
	}
}

// FilterEnabled reports whether the filter with the given ID is enabled
// for this user.
func (p *UserContentPreferences) FilterEnabled(filterID string) bool {
	for _, id := range p.EnabledFilters {
		if id == filterID {
			return true
		}
	}
	return false
}

// EffectiveRating returns the user's rating after applying parental
// controls: a supervised user never exceeds the configured maximum.
func (p *UserContentPreferences) EffectiveRating() ContentRating {
	if p.ParentalControls.Enabled && p.ParentalControls.MaxRating != "" {
		if RatingRank(p.ContentRating) > RatingRank(p.ParentalControls.MaxRating) {
			return p.ParentalControls.MaxRating
		}
	}
	return p.ContentRating
}

// StorageKey returns the key under which these preferences are
// persisted by the storage collaborator.
func (p *UserContentPreferences) StorageKey() string {
	return constants.PreferencesStorageKeyPrefix + p.UserID
}

// PreferencesUpdate represents a request to change a user's rating or
// filter switches.
type PreferencesUpdate struct {
	ContentRating  *string  `json:"content_rating,omitempty" validate:"omitempty,oneof=general teen mature restricted"`
	EnableFilters  []string `json:"enable_filters,omitempty" validate:"omitempty,dive,required"`
	DisableFilters []string `json:"disable_filters,omitempty" validate:"omitempty,dive,required"`
}
