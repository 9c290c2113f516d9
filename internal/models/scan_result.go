package models

import (
	"time"
)

// IssueLocation points at the span of content that triggered an issue.
type IssueLocation struct {
	// Start is the rune offset where the matched span begins
	Start int `json:"start"`

	// End is the rune offset just past the matched span
	End int `json:"end"`
}

// DetectedIssue is a single problem found while scanning content.
type DetectedIssue struct {
	// Type identifies the kind of issue (filter_match, length_exceeded, ...)
	Type string `json:"type"`

	// Severity grades the issue
	Severity Severity `json:"severity"`

	// Description is a human-readable explanation
	Description string `json:"description"`

	// Location points at the offending span when one exists
	Location *IssueLocation `json:"location,omitempty"`

	// Suggestions proposes how the caller could make the content admissible
	Suggestions []string `json:"suggestions,omitempty"`
}

// ScanMetadata carries bookkeeping information about a scan.
type ScanMetadata struct {
	// ScanTimestamp records when the scan ran
	ScanTimestamp time.Time `json:"scan_timestamp"`

	// ScanDuration records how long the scan took
	ScanDuration time.Duration `json:"scan_duration_ms"`

	// FiltersUsed lists the IDs of filters evaluated during the scan
	FiltersUsed []string `json:"filters_used"`

	// ContentHash is a SHA-256 hex digest of the scanned content
	ContentHash string `json:"content_hash"`
}

// ContentScanResult is the verdict produced by scanning one piece of
// content. Results are ephemeral: produced fresh per scan and never
// persisted as-is.
type ContentScanResult struct {
	// IsAllowed is false when the content must not be displayed or
	// transmitted
	IsAllowed bool `json:"is_allowed"`

	// Confidence expresses how certain the verdict is (0.0 to 1.0)
	Confidence float64 `json:"confidence"`

	// Rating is the rating the content was evaluated against
	Rating ContentRating `json:"rating"`

	// DetectedIssues lists every problem found, in detection order
	DetectedIssues []DetectedIssue `json:"detected_issues"`

	// FilteredContent holds a redacted copy of the content when any
	// matched filter requested redaction
	FilteredContent *string `json:"filtered_content,omitempty"`

	// Metadata carries scan bookkeeping
	Metadata ScanMetadata `json:"metadata"`
}

// HasCriticalIssue reports whether any detected issue carries critical
// severity.
func (r *ContentScanResult) HasCriticalIssue() bool {
	for _, issue := range r.DetectedIssues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// RatingValidation is the outcome of checking content against a
// requested rating.
type RatingValidation struct {
	// IsValid is true when the content satisfies the requested rating
	IsValid bool `json:"is_valid"`

	// SuggestedRating is the rating the content actually requires;
	// never lower than the requested rating
	SuggestedRating ContentRating `json:"suggested_rating"`

	// Reasons explains every way the content missed the requested rating
	Reasons []string `json:"reasons"`
}

// ModerationReport is emitted as a side effect when a filter with the
// report action matches content.
type ModerationReport struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	FilterID    string         `json:"filter_id"`
	Category    FilterCategory `json:"category"`
	Severity    Severity       `json:"severity"`
	ContentHash string         `json:"content_hash"`
	ReportedAt  time.Time      `json:"reported_at"`
}

// ScanRequest is the transport-level request for a content scan.
// Locale selects the language of the fallback text returned for blocked
// content; unknown or empty locales use the default.
type ScanRequest struct {
	Content  string `json:"content"`
	Category string `json:"category" validate:"required,oneof=dialogue scenario character media"`
	UserID   string `json:"user_id" validate:"required"`
	Locale   string `json:"locale,omitempty"`
}

// ValidateRatingRequest is the transport-level request for rating
// validation.
type ValidateRatingRequest struct {
	Content         string `json:"content"`
	RequestedRating string `json:"requested_rating" validate:"required,oneof=general teen mature restricted"`
	UserID          string `json:"user_id" validate:"required"`
}
