package filter

import (
	"context"
	"fmt"

	"github.com/hanachat/contentguard/internal/models"
)

// RatingValidator checks whether content satisfies a requested rating,
// suggesting the rating the content actually requires when it does not.
type RatingValidator struct {
	scanner    *Scanner
	estimator  *EmotionEstimator
	guidelines *GuidelineTable
}

// NewRatingValidator creates a rating validator on top of a scanner.
func NewRatingValidator(scanner *Scanner, estimator *EmotionEstimator, guidelines *GuidelineTable) *RatingValidator {
	return &RatingValidator{
		scanner:    scanner,
		estimator:  estimator,
		guidelines: guidelines,
	}
}

// Validate runs a scan and an emotion estimate for the content and
// checks both against the requested rating's guideline.
//
// Escalation policy: a critical issue forces the restricted rating; a
// high issue on general or teen escalates exactly one tier. The
// suggested rating never drops below the requested one.
func (v *RatingValidator) Validate(ctx context.Context, content string, requested models.ContentRating, userID string) (*models.RatingValidation, error) {
	scan, err := v.scanner.Scan(ctx, content, models.CategoryDialogue, userID)
	if err != nil {
		return nil, err
	}

	validation := &models.RatingValidation{
		IsValid:         true,
		SuggestedRating: requested,
		Reasons:         []string{},
	}

	guideline := v.guidelines.Get(requested)

	// Emotion ceilings from the requested rating's guideline
	intensities := v.estimator.Estimate(content)
	for emotion, intensity := range intensities {
		ceiling, capped := guideline.MaxEmotionIntensity[emotion]
		if !capped {
			continue
		}
		if intensity > ceiling {
			validation.IsValid = false
			validation.Reasons = append(validation.Reasons,
				fmt.Sprintf("%s intensity %.2f exceeds the %s ceiling of %.2f", emotion, intensity, requested, ceiling))
		}
	}

	// Issue-driven escalation
	suggested := requested
	for _, issue := range scan.DetectedIssues {
		switch issue.Severity {
		case models.SeverityCritical:
			suggested = models.RatingRestricted
			validation.IsValid = false
			validation.Reasons = append(validation.Reasons,
				fmt.Sprintf("critical issue detected: %s", issue.Description))
		case models.SeverityHigh:
			escalated := escalateOneTier(requested)
			if models.RatingRank(escalated) > models.RatingRank(suggested) {
				suggested = escalated
			}
			validation.IsValid = false
			validation.Reasons = append(validation.Reasons,
				fmt.Sprintf("high severity issue detected: %s", issue.Description))
		}
	}

	if !scan.IsAllowed && validation.IsValid {
		validation.IsValid = false
		validation.Reasons = append(validation.Reasons, "content is not admissible under the active filters")
	}

	// Never downgrade below the originally requested rating
	if models.RatingRank(suggested) > models.RatingRank(requested) {
		validation.SuggestedRating = suggested
	}

	return validation, nil
}

// escalateOneTier bumps general and teen one tier up; mature and
// restricted are unchanged by high-severity issues.
func escalateOneTier(rating models.ContentRating) models.ContentRating {
	switch rating {
	case models.RatingGeneral:
		return models.RatingTeen
	case models.RatingTeen:
		return models.RatingMature
	}
	return rating
}
