package models

import (
	"github.com/hanachat/contentguard/internal/constants"
)

// ContentRating is an audience tier for dialogue content.
type ContentRating string

// Available content ratings, ordered from most to least restrictive
const (
	RatingGeneral    ContentRating = constants.RatingGeneral
	RatingTeen       ContentRating = constants.RatingTeen
	RatingMature     ContentRating = constants.RatingMature
	RatingRestricted ContentRating = constants.RatingRestricted
)

// ValidRating checks if the provided rating is one of the known values.
func ValidRating(r ContentRating) bool {
	switch r {
	case RatingGeneral, RatingTeen, RatingMature, RatingRestricted:
		return true
	}
	return false
}

// RatingRank returns a numeric ordering for ratings so escalation can
// be compared. Unknown ratings rank lowest.
func RatingRank(r ContentRating) int {
	switch r {
	case RatingRestricted:
		return 4
	case RatingMature:
		return 3
	case RatingTeen:
		return 2
	case RatingGeneral:
		return 1
	}
	return 0
}

// ContentLimits bounds the size and locale of content under a rating.
type ContentLimits struct {
	// MaxMessageLength is the maximum number of characters in a single
	// message (counted in runes, not bytes)
	MaxMessageLength int `json:"max_message_length"`

	// MaxConversationLength is the maximum number of turns in a
	// conversation
	MaxConversationLength int `json:"max_conversation_length"`

	// AllowedLanguages lists the locales permitted under this rating;
	// empty means all locales are allowed
	AllowedLanguages []string `json:"allowed_languages"`
}

// RatingGuideline is the static policy for a single content rating.
// Guidelines are loaded at startup and never mutated.
type RatingGuideline struct {
	// Rating identifies the audience tier this guideline applies to
	Rating ContentRating `json:"rating"`

	// MinAge is the minimum user age for this rating
	MinAge int `json:"min_age"`

	// AllowedTopics lists topics explicitly acceptable at this tier
	AllowedTopics []string `json:"allowed_topics"`

	// RestrictedTopics lists topics never acceptable at this tier
	RestrictedTopics []string `json:"restricted_topics"`

	// MaxEmotionIntensity caps the estimated intensity per emotion
	// (0.0 to 1.0); emotions absent from the map are uncapped
	MaxEmotionIntensity map[string]float64 `json:"max_emotion_intensity"`

	// ContentLimits bounds message and conversation sizes
	ContentLimits ContentLimits `json:"content_limits"`
}
