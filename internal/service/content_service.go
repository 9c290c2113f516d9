package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/filter"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/utils"
)

// ContentService orchestrates content scanning and rating validation
// for the HTTP surface.
type ContentService struct {
	scanner   *filter.Scanner
	validator *filter.RatingValidator
}

// NewContentService creates a content service.
func NewContentService(scanner *filter.Scanner, validator *filter.RatingValidator) *ContentService {
	return &ContentService{
		scanner:   scanner,
		validator: validator,
	}
}

// Scan evaluates content for a user and returns the structured verdict.
// Inadmissible content is a normal result, not an error.
func (s *ContentService) Scan(ctx context.Context, req models.ScanRequest) (*models.ContentScanResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	result, err := s.scanner.Scan(ctx, req.Content, models.FilterCategory(req.Category), req.UserID)
	if err != nil {
		return nil, err
	}

	if !result.IsAllowed {
		log.Info().
			Str("user_id", utils.MaskValue(req.UserID)).
			Str("category", req.Category).
			Int("issues", len(result.DetectedIssues)).
			Float64("confidence", result.Confidence).
			Msg("Content blocked by scan")
	}

	return result, nil
}

// ValidateRating checks content against a requested rating and suggests
// the rating the content actually requires.
func (s *ContentService) ValidateRating(ctx context.Context, req models.ValidateRatingRequest) (*models.RatingValidation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	return s.validator.Validate(ctx, req.Content, models.ContentRating(req.RequestedRating), req.UserID)
}

// DisplayContent resolves what the caller should render for a scanned
// message: the original content when admissible, the redacted copy when
// a filter rewrote it, or the localized fallback when blocked.
func (s *ContentService) DisplayContent(result *models.ContentScanResult, content, locale string) string {
	if !result.IsAllowed {
		return filter.BlockedFallback(locale)
	}
	if result.FilteredContent != nil {
		return *result.FilteredContent
	}
	return content
}
