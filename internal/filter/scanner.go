package filter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
)

// PreferencesProvider supplies per-user content preferences to the
// scanner. Implementations create default preferences lazily for users
// seen for the first time.
type PreferencesProvider interface {
	GetOrCreate(ctx context.Context, userID string) (*models.UserContentPreferences, error)
}

// ScannerConfig carries the confidence math. The zero value is not
// usable; call DefaultScannerConfig for the reference behavior.
type ScannerConfig struct {
	ConfidenceCutoff float64
	PenaltyCritical  float64
	PenaltyHigh      float64
	PenaltyMedium    float64
	PenaltyLow       float64
	PenaltyDefault   float64
	PenaltyLength    float64
}

// DefaultScannerConfig returns the penalty table and cutoff the
// reference behavior depends on.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		ConfidenceCutoff: constants.ConfidenceCutoff,
		PenaltyCritical:  constants.PenaltyCritical,
		PenaltyHigh:      constants.PenaltyHigh,
		PenaltyMedium:    constants.PenaltyMedium,
		PenaltyLow:       constants.PenaltyLow,
		PenaltyDefault:   constants.PenaltyDefault,
		PenaltyLength:    constants.PenaltyLength,
	}
}

// penalty returns the confidence multiplier for a severity.
func (c ScannerConfig) penalty(s models.Severity) float64 {
	switch s {
	case models.SeverityCritical:
		return c.PenaltyCritical
	case models.SeverityHigh:
		return c.PenaltyHigh
	case models.SeverityMedium:
		return c.PenaltyMedium
	case models.SeverityLow:
		return c.PenaltyLow
	}
	return c.PenaltyDefault
}

// Scanner applies the rule set and rating guidelines to content,
// producing a structured scan result. Scanners hold no per-scan state
// and are safe for unlimited concurrent use.
type Scanner struct {
	rules      *RuleSet
	guidelines *GuidelineTable
	prefs      PreferencesProvider
	reporter   Reporter
	config     ScannerConfig
}

// NewScanner creates a scanner.
//
// Parameters:
//   - rules: The compiled built-in rule set
//   - guidelines: The static rating guideline table
//   - prefs: Supplier of per-user preferences
//   - reporter: Sink for moderation reports (may be nil to disable)
//   - config: The confidence math configuration
//
// Returns:
//   - A configured scanner
func NewScanner(rules *RuleSet, guidelines *GuidelineTable, prefs PreferencesProvider, reporter Reporter, config ScannerConfig) *Scanner {
	return &Scanner{
		rules:      rules,
		guidelines: guidelines,
		prefs:      prefs,
		reporter:   reporter,
		config:     config,
	}
}

// Scan evaluates content against the user's active filters and the
// guideline for their effective rating. Scanning never fails for
// inadmissible content: problems are encoded as issues in the result.
// The only error sources are preference loading and cancellation.
func (s *Scanner) Scan(ctx context.Context, content string, category models.FilterCategory, userID string) (*models.ContentScanResult, error) {
	started := time.Now()

	prefs, err := s.prefs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	rating := prefs.EffectiveRating()
	guideline := s.guidelines.Get(rating)

	result := &models.ContentScanResult{
		IsAllowed:      true,
		Confidence:     1.0,
		Rating:         rating,
		DetectedIssues: []models.DetectedIssue{},
	}

	// Empty content is trivially admissible
	if content == "" {
		s.finishMetadata(result, content, started, nil)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Length check against the guideline
	contentLen := len([]rune(content))
	if contentLen > guideline.ContentLimits.MaxMessageLength {
		result.DetectedIssues = append(result.DetectedIssues, models.DetectedIssue{
			Type:        constants.IssueTypeLengthExceeded,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("content length %d exceeds the %s limit of %d", contentLen, rating, guideline.ContentLimits.MaxMessageLength),
			Suggestions: []string{fmt.Sprintf("shorten the message to %d characters or fewer", guideline.ContentLimits.MaxMessageLength)},
		})
		result.Confidence *= s.config.PenaltyLength
	}

	var filtersUsed []string
	var redactSpans [][]int

	// Built-in filters first, then the user's custom filters, evaluated
	// identically
	for _, cf := range s.rules.Builtin() {
		if !cf.Filter.IsActive || cf.Filter.Category != category {
			continue
		}
		if !prefs.FilterEnabled(cf.Filter.ID) {
			continue
		}
		filtersUsed = append(filtersUsed, cf.Filter.ID)
		redactSpans = s.applyFilter(cf, content, userID, result, redactSpans)
	}

	for i := range prefs.CustomFilters {
		custom := prefs.CustomFilters[i]
		if !custom.IsActive || custom.Category != category {
			continue
		}
		if !prefs.FilterEnabled(custom.ID) {
			continue
		}
		cf, err := s.rules.CompileCustom(custom)
		if err != nil {
			// Registration validates patterns, so this only happens for
			// definitions that bypassed it; skip rather than fail the scan
			log.Warn().
				Str("filter_id", custom.ID).
				Err(err).
				Msg("Skipping custom filter with invalid pattern")
			continue
		}
		filtersUsed = append(filtersUsed, custom.ID)
		redactSpans = s.applyFilter(cf, content, userID, result, redactSpans)
	}

	// Parental-control restrictions, evaluated by the closed predicate
	// interpreter
	if prefs.ParentalControls.Enabled {
		pctx := PolicyContext{
			Rating:        rating,
			Category:      category,
			HourOfDay:     time.Now().Hour(),
			ContentLength: contentLen,
		}
		for _, cond := range prefs.ParentalControls.Restrictions {
			ok, err := EvaluateCondition(cond, pctx)
			if err != nil {
				log.Warn().Err(err).Msg("Skipping malformed parental-control condition")
				continue
			}
			if !ok {
				result.DetectedIssues = append(result.DetectedIssues, models.DetectedIssue{
					Type:        constants.IssueTypePolicy,
					Severity:    models.SeverityHigh,
					Description: fmt.Sprintf("parental control restriction on %s not satisfied", cond.Field),
				})
				result.IsAllowed = false
			}
		}
	}

	// Build the redacted copy when any filter requested redaction
	if len(redactSpans) > 0 {
		redacted := maskSpans(content, redactSpans)
		result.FilteredContent = &redacted
	}

	// Final admissibility
	result.IsAllowed = result.IsAllowed &&
		result.Confidence >= s.config.ConfidenceCutoff &&
		!result.HasCriticalIssue()

	s.finishMetadata(result, content, started, filtersUsed)
	return result, nil
}

// applyFilter evaluates one compiled filter against the content,
// recording at most one issue regardless of how many patterns or
// occurrences matched, and applying the filter's configured action.
// It returns the accumulated redaction spans.
func (s *Scanner) applyFilter(cf *CompiledFilter, content, userID string, result *models.ContentScanResult, redactSpans [][]int) [][]int {
	var location *models.IssueLocation
	var matchedSpans [][]int

	for _, p := range cf.Patterns {
		spans := p.FindAll(content)
		if len(spans) == 0 {
			continue
		}
		if location == nil {
			location = &models.IssueLocation{
				Start: runeOffset(content, spans[0][0]),
				End:   runeOffset(content, spans[0][1]),
			}
		}
		matchedSpans = append(matchedSpans, spans...)
	}

	if len(matchedSpans) == 0 {
		return redactSpans
	}

	// One issue per filter, not per match
	result.DetectedIssues = append(result.DetectedIssues, models.DetectedIssue{
		Type:        constants.IssueTypeFilterMatch,
		Severity:    cf.Filter.Severity,
		Description: fmt.Sprintf("content matched the %s filter", cf.Filter.Name),
		Location:    location,
		Suggestions: []string{"rephrase the flagged expression"},
	})
	result.Confidence *= s.config.penalty(cf.Filter.Severity)

	switch cf.Filter.Action {
	case models.ActionBlock:
		result.IsAllowed = false
	case models.ActionFilter:
		redactSpans = append(redactSpans, matchedSpans...)
	case models.ActionReport:
		if s.reporter != nil {
			s.reporter.Report(models.ModerationReport{
				UserID:      userID,
				FilterID:    cf.Filter.ID,
				Category:    cf.Filter.Category,
				Severity:    cf.Filter.Severity,
				ContentHash: hashContent(content),
				ReportedAt:  time.Now(),
			})
		}
	case models.ActionWarn:
		// The issue record is the warning
	}

	return redactSpans
}

// finishMetadata fills in the scan bookkeeping fields.
func (s *Scanner) finishMetadata(result *models.ContentScanResult, content string, started time.Time, filtersUsed []string) {
	if filtersUsed == nil {
		filtersUsed = []string{}
	}
	result.Metadata = models.ScanMetadata{
		ScanTimestamp: started,
		ScanDuration:  time.Since(started),
		FiltersUsed:   filtersUsed,
		ContentHash:   hashContent(content),
	}
}

// hashContent returns the SHA-256 hex digest of the content.
func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// maskSpans replaces every byte-offset span in the content with mask
// characters, one per rune, merging overlapping spans first.
func maskSpans(content string, spans [][]int) string {
	if len(spans) == 0 {
		return content
	}

	sorted := make([][]int, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	merged := [][]int{sorted[0]}
	for _, span := range sorted[1:] {
		last := merged[len(merged)-1]
		if span[0] <= last[1] {
			if span[1] > last[1] {
				last[1] = span[1]
			}
		} else {
			merged = append(merged, span)
		}
	}

	var b strings.Builder
	prev := 0
	for _, span := range merged {
		b.WriteString(content[prev:span[0]])
		b.WriteString(strings.Repeat(constants.MaskCharacter, len([]rune(content[span[0]:span[1]]))))
		prev = span[1]
	}
	b.WriteString(content[prev:])

	return b.String()
}
