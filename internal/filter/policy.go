package filter

import (
	"fmt"
	"strconv"

	"github.com/hanachat/contentguard/internal/models"
)

// PolicyContext carries the named fields a policy condition may
// inspect during a scan.
type PolicyContext struct {
	Rating        models.ContentRating
	Category      models.FilterCategory
	HourOfDay     int
	ContentLength int
}

// EvaluateCondition interprets a single parental-control condition
// against the context. Conditions are plain data from a closed set of
// comparisons; nothing here ever executes caller-supplied code.
func EvaluateCondition(cond models.PolicyCondition, ctx PolicyContext) (bool, error) {
	switch cond.Field {
	case models.PolicyFieldRating:
		return compareOrdered(cond.Operator, models.RatingRank(ctx.Rating), models.RatingRank(models.ContentRating(cond.Value)))

	case models.PolicyFieldCategory:
		switch cond.Operator {
		case models.PolicyOpEquals:
			return string(ctx.Category) == cond.Value, nil
		case models.PolicyOpNotEquals:
			return string(ctx.Category) != cond.Value, nil
		default:
			return false, fmt.Errorf("operator %s not applicable to category", cond.Operator)
		}

	case models.PolicyFieldHourOfDay:
		value, err := strconv.Atoi(cond.Value)
		if err != nil {
			return false, fmt.Errorf("invalid hour value %q: %w", cond.Value, err)
		}
		return compareOrdered(cond.Operator, ctx.HourOfDay, value)

	case models.PolicyFieldContentLen:
		value, err := strconv.Atoi(cond.Value)
		if err != nil {
			return false, fmt.Errorf("invalid length value %q: %w", cond.Value, err)
		}
		return compareOrdered(cond.Operator, ctx.ContentLength, value)
	}

	return false, fmt.Errorf("unknown policy field: %s", cond.Field)
}

// compareOrdered applies an operator to two ordered integer values.
func compareOrdered(op models.PolicyOperator, actual, expected int) (bool, error) {
	switch op {
	case models.PolicyOpEquals:
		return actual == expected, nil
	case models.PolicyOpNotEquals:
		return actual != expected, nil
	case models.PolicyOpAtMost:
		return actual <= expected, nil
	case models.PolicyOpAtLeast:
		return actual >= expected, nil
	}
	return false, fmt.Errorf("unknown policy operator: %s", op)
}
