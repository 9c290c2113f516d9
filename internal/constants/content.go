// Package constants centralizes the named values used across the
// contentguard application so that policy numbers and identifiers are
// defined in exactly one place.
package constants

import "time"

// Content Ratings
const (
	RatingGeneral    = "general"
	RatingTeen       = "teen"
	RatingMature     = "mature"
	RatingRestricted = "restricted"
)

// Minimum ages per rating
const (
	MinAgeGeneral    = 0
	MinAgeTeen       = 13
	MinAgeMature     = 18
	MinAgeRestricted = 21
)

// Content Categories
const (
	CategoryDialogue  = "dialogue"
	CategoryScenario  = "scenario"
	CategoryCharacter = "character"
	CategoryMedia     = "media"
)

// Issue Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Filter Actions
const (
	ActionWarn   = "warn"
	ActionFilter = "filter"
	ActionBlock  = "block"
	ActionReport = "report"
)

// Issue Types
const (
	IssueTypeLengthExceeded = "length_exceeded"
	IssueTypeFilterMatch    = "filter_match"
	IssueTypePolicy         = "policy_restriction"
)

// Confidence penalties applied per matched filter, keyed by severity.
// The reference scanning behavior depends on these exact values.
const (
	PenaltyCritical = 0.1
	PenaltyHigh     = 0.3
	PenaltyMedium   = 0.6
	PenaltyLow      = 0.8
	PenaltyDefault  = 0.9
	PenaltyLength   = 0.8
)

// ConfidenceCutoff is the minimum confidence for content to remain
// admissible.
const ConfidenceCutoff = 0.5

// Maximum message lengths per rating
const (
	MaxMessageLengthGeneral    = 200
	MaxMessageLengthTeen       = 500
	MaxMessageLengthMature     = 1000
	MaxMessageLengthRestricted = 2000
)

// Maximum conversation lengths (turns) per rating
const (
	MaxConversationLengthGeneral    = 50
	MaxConversationLengthTeen       = 100
	MaxConversationLengthMature     = 200
	MaxConversationLengthRestricted = 500
)

// MaskCharacter replaces matched spans when a filter action is "filter".
const MaskCharacter = "*"

// Built-in filter IDs
const (
	FilterIDPersonalInfo = "personal_info"
	FilterIDProfanity    = "profanity"
	FilterIDViolence     = "violence"
	FilterIDHarassment   = "harassment"
	FilterIDSpam         = "spam"
	FilterIDAdultContent = "adult_content"
)

// Emotions estimated by the rating validator
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionRomance  = "romance"
)

// Supported locales for guideline checks and fallback messages
const (
	LocaleJapanese = "ja"
	LocaleEnglish  = "en"
)

// Preferences cache
const (
	PreferencesStorageKeyPrefix = "content_preferences:"
	MaxCustomFilters            = 50
	MaxPatternsPerFilter        = 20
)

// ProfileStorageKeyPrefix is the key prefix of plain user profile blobs
// processed by the privacy workflows.
const ProfileStorageKeyPrefix = "profile:"

// DefaultScanTimeout bounds a single scan including preference loading.
const DefaultScanTimeout = 5 * time.Second
