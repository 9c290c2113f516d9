package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/models"
)

func TestEvaluateCondition(t *testing.T) {
	pctx := PolicyContext{
		Rating:        models.RatingTeen,
		Category:      models.CategoryDialogue,
		HourOfDay:     21,
		ContentLength: 120,
	}

	t.Run("rating comparisons use the rating order", func(t *testing.T) {
		// Act
		ok, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldRating, Operator: models.PolicyOpAtMost, Value: "mature",
		}, pctx)

		// Assert: teen ranks below mature
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldRating, Operator: models.PolicyOpAtLeast, Value: "mature",
		}, pctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("category supports equality only", func(t *testing.T) {
		// Act
		ok, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldCategory, Operator: models.PolicyOpEquals, Value: "dialogue",
		}, pctx)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldCategory, Operator: models.PolicyOpNotEquals, Value: "scenario",
		}, pctx)
		require.NoError(t, err)
		assert.True(t, ok)

		// Assert: ordered operators are rejected for categories
		_, err = EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldCategory, Operator: models.PolicyOpAtMost, Value: "dialogue",
		}, pctx)
		assert.Error(t, err)
	})

	t.Run("hour of day is compared numerically", func(t *testing.T) {
		// Act
		ok, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldHourOfDay, Operator: models.PolicyOpAtMost, Value: "22",
		}, pctx)

		// Assert
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("content length is compared numerically", func(t *testing.T) {
		// Act
		ok, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldContentLen, Operator: models.PolicyOpAtLeast, Value: "200",
		}, pctx)

		// Assert
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-numeric value for a numeric field errors", func(t *testing.T) {
		// Act
		_, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldHourOfDay, Operator: models.PolicyOpAtMost, Value: "evening",
		}, pctx)

		// Assert
		assert.Error(t, err)
	})

	t.Run("unknown field errors", func(t *testing.T) {
		// Act
		_, err := EvaluateCondition(models.PolicyCondition{
			Field: "ip_address", Operator: models.PolicyOpEquals, Value: "x",
		}, pctx)

		// Assert
		assert.Error(t, err)
	})

	t.Run("unknown operator errors", func(t *testing.T) {
		// Act
		_, err := EvaluateCondition(models.PolicyCondition{
			Field: models.PolicyFieldHourOfDay, Operator: "gt", Value: "5",
		}, pctx)

		// Assert
		assert.Error(t, err)
	})
}
