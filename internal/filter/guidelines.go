package filter

import (
	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
)

// GuidelineTable holds the static per-rating policy data. It is built
// once at startup and never mutated afterwards.
type GuidelineTable struct {
	guidelines map[models.ContentRating]*models.RatingGuideline
}

// DefaultGuidelineTable builds the guideline table with the standard
// policy for each rating tier.
func DefaultGuidelineTable() *GuidelineTable {
	table := map[models.ContentRating]*models.RatingGuideline{
		models.RatingGeneral: {
			Rating:        models.RatingGeneral,
			MinAge:        constants.MinAgeGeneral,
			AllowedTopics: []string{"daily_life", "hobbies", "school", "friendship", "weather"},
			RestrictedTopics: []string{
				"violence", "adult", "gambling", "drugs", "self_harm",
			},
			MaxEmotionIntensity: map[string]float64{
				constants.EmotionJoy:      0.8,
				constants.EmotionSadness:  0.4,
				constants.EmotionAnger:    0.3,
				constants.EmotionFear:     0.3,
				constants.EmotionSurprise: 0.6,
				constants.EmotionRomance:  0.2,
			},
			ContentLimits: models.ContentLimits{
				MaxMessageLength:      constants.MaxMessageLengthGeneral,
				MaxConversationLength: constants.MaxConversationLengthGeneral,
				AllowedLanguages:      []string{constants.LocaleJapanese, constants.LocaleEnglish},
			},
		},
		models.RatingTeen: {
			Rating:        models.RatingTeen,
			MinAge:        constants.MinAgeTeen,
			AllowedTopics: []string{"daily_life", "hobbies", "school", "friendship", "romance_mild", "drama"},
			RestrictedTopics: []string{
				"adult", "gambling", "drugs", "self_harm",
			},
			MaxEmotionIntensity: map[string]float64{
				constants.EmotionJoy:      1.0,
				constants.EmotionSadness:  0.6,
				constants.EmotionAnger:    0.5,
				constants.EmotionFear:     0.5,
				constants.EmotionSurprise: 0.8,
				constants.EmotionRomance:  0.5,
			},
			ContentLimits: models.ContentLimits{
				MaxMessageLength:      constants.MaxMessageLengthTeen,
				MaxConversationLength: constants.MaxConversationLengthTeen,
				AllowedLanguages:      []string{constants.LocaleJapanese, constants.LocaleEnglish},
			},
		},
		models.RatingMature: {
			Rating:        models.RatingMature,
			MinAge:        constants.MinAgeMature,
			AllowedTopics: []string{"daily_life", "hobbies", "romance", "drama", "conflict"},
			RestrictedTopics: []string{
				"self_harm",
			},
			MaxEmotionIntensity: map[string]float64{
				constants.EmotionJoy:      1.0,
				constants.EmotionSadness:  0.8,
				constants.EmotionAnger:    0.8,
				constants.EmotionFear:     0.8,
				constants.EmotionSurprise: 1.0,
				constants.EmotionRomance:  0.8,
			},
			ContentLimits: models.ContentLimits{
				MaxMessageLength:      constants.MaxMessageLengthMature,
				MaxConversationLength: constants.MaxConversationLengthMature,
				AllowedLanguages:      []string{constants.LocaleJapanese, constants.LocaleEnglish},
			},
		},
		models.RatingRestricted: {
			Rating:           models.RatingRestricted,
			MinAge:           constants.MinAgeRestricted,
			AllowedTopics:    []string{},
			RestrictedTopics: []string{},
			MaxEmotionIntensity: map[string]float64{
				constants.EmotionJoy:      1.0,
				constants.EmotionSadness:  1.0,
				constants.EmotionAnger:    1.0,
				constants.EmotionFear:     1.0,
				constants.EmotionSurprise: 1.0,
				constants.EmotionRomance:  1.0,
			},
			ContentLimits: models.ContentLimits{
				MaxMessageLength:      constants.MaxMessageLengthRestricted,
				MaxConversationLength: constants.MaxConversationLengthRestricted,
				AllowedLanguages:      []string{},
			},
		},
	}

	return &GuidelineTable{guidelines: table}
}

// Get returns the guideline for a rating. Unknown ratings fall back to
// the general guideline, the most restrictive tier.
func (t *GuidelineTable) Get(rating models.ContentRating) *models.RatingGuideline {
	if g, ok := t.guidelines[rating]; ok {
		return g
	}
	return t.guidelines[models.RatingGeneral]
}

// Ratings returns all ratings present in the table.
func (t *GuidelineTable) Ratings() []models.ContentRating {
	ratings := make([]models.ContentRating, 0, len(t.guidelines))
	for r := range t.guidelines {
		ratings = append(ratings, r)
	}
	return ratings
}
