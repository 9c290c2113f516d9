package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/models"
)

func newTestValidator(t *testing.T) *RatingValidator {
	t.Helper()

	scanner, _ := newTestScanner(t, defaultTestPrefs())
	return NewRatingValidator(scanner, NewEmotionEstimator(), DefaultGuidelineTable())
}

func TestRatingValidator_Validate(t *testing.T) {
	ctx := context.Background()
	validator := newTestValidator(t)

	t.Run("clean content is valid at the requested rating", func(t *testing.T) {
		// Act
		v, err := validator.Validate(ctx, "今日は公園に行きました", models.RatingGeneral, "user-1")

		// Assert
		require.NoError(t, err)
		assert.True(t, v.IsValid)
		assert.Equal(t, models.RatingGeneral, v.SuggestedRating)
		assert.Empty(t, v.Reasons)
	})

	t.Run("romance over the general ceiling invalidates", func(t *testing.T) {
		// Act: "愛してる" carries romance intensity 0.6, above the general
		// ceiling of 0.2
		v, err := validator.Validate(ctx, "ずっと愛してるよ", models.RatingGeneral, "user-1")

		// Assert: an emotion violation flags but never escalates by itself
		require.NoError(t, err)
		assert.False(t, v.IsValid)
		assert.Equal(t, models.RatingGeneral, v.SuggestedRating)
		require.NotEmpty(t, v.Reasons)
		assert.Contains(t, v.Reasons[0], "romance")
	})

	t.Run("intensity exactly at the ceiling passes", func(t *testing.T) {
		// Act: "love you" carries 0.5, the teen romance ceiling
		v, err := validator.Validate(ctx, "I love you", models.RatingTeen, "user-1")

		// Assert
		require.NoError(t, err)
		assert.True(t, v.IsValid)
	})

	t.Run("high severity issue escalates general by one tier", func(t *testing.T) {
		// Act
		v, err := validator.Validate(ctx, "well fuck that", models.RatingGeneral, "user-1")

		// Assert
		require.NoError(t, err)
		assert.False(t, v.IsValid)
		assert.Equal(t, models.RatingTeen, v.SuggestedRating)
	})

	t.Run("high severity issue never downgrades mature", func(t *testing.T) {
		// Act
		v, err := validator.Validate(ctx, "well fuck that", models.RatingMature, "user-1")

		// Assert
		require.NoError(t, err)
		assert.False(t, v.IsValid)
		assert.Equal(t, models.RatingMature, v.SuggestedRating)
	})

	t.Run("critical issue forces the restricted rating", func(t *testing.T) {
		// Act
		v, err := validator.Validate(ctx, "連絡先は090-1234-5678です", models.RatingGeneral, "user-1")

		// Assert
		require.NoError(t, err)
		assert.False(t, v.IsValid)
		assert.Equal(t, models.RatingRestricted, v.SuggestedRating)
	})

	t.Run("medium severity issues do not invalidate", func(t *testing.T) {
		// Act: violence is medium severity and the scan stays admissible
		v, err := validator.Validate(ctx, "a murder mystery", models.RatingGeneral, "user-1")

		// Assert
		require.NoError(t, err)
		assert.True(t, v.IsValid)
		assert.Equal(t, models.RatingGeneral, v.SuggestedRating)
	})
}

func TestEscalateOneTier(t *testing.T) {
	assert.Equal(t, models.RatingTeen, escalateOneTier(models.RatingGeneral))
	assert.Equal(t, models.RatingMature, escalateOneTier(models.RatingTeen))
	assert.Equal(t, models.RatingMature, escalateOneTier(models.RatingMature))
	assert.Equal(t, models.RatingRestricted, escalateOneTier(models.RatingRestricted))
}

func TestBlockedFallback(t *testing.T) {
	t.Run("known locales return their message", func(t *testing.T) {
		assert.Contains(t, BlockedFallback("ja"), "このメッセージは表示できません")
		assert.Contains(t, BlockedFallback("en"), "cannot be displayed")
	})

	t.Run("unknown locale falls back to japanese", func(t *testing.T) {
		assert.Equal(t, BlockedFallback("ja"), BlockedFallback("fr"))
	})
}
