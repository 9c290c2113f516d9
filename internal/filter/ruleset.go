package filter

import (
	"sync"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
)

// CompiledFilter pairs a filter definition with its compiled patterns.
type CompiledFilter struct {
	Filter   models.ContentFilter
	Patterns []*Pattern
}

// RuleSet is the ordered collection of built-in content filters with
// their patterns compiled, plus a cache of compiled user custom
// filters. Built-in filters are immutable; custom filters are cached by
// ID because they are immutable once defined (add/remove only).
type RuleSet struct {
	builtin []*CompiledFilter

	customMu sync.RWMutex
	custom   map[string]*CompiledFilter
}

// NewRuleSet compiles the given built-in filters into a rule set. A
// malformed pattern fails the whole construction so that configuration
// mistakes surface at startup, not during scans.
func NewRuleSet(filters []models.ContentFilter) (*RuleSet, error) {
	compiled := make([]*CompiledFilter, 0, len(filters))
	for _, f := range filters {
		patterns, err := CompilePatterns(f.Patterns)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, &CompiledFilter{Filter: f, Patterns: patterns})
	}

	return &RuleSet{
		builtin: compiled,
		custom:  make(map[string]*CompiledFilter),
	}, nil
}

// Builtin returns the compiled built-in filters in evaluation order.
func (rs *RuleSet) Builtin() []*CompiledFilter {
	return rs.builtin
}

// BuiltinIDs returns the IDs of all built-in filters.
func (rs *RuleSet) BuiltinIDs() []string {
	ids := make([]string, 0, len(rs.builtin))
	for _, cf := range rs.builtin {
		ids = append(ids, cf.Filter.ID)
	}
	return ids
}

// CompileCustom returns the compiled form of a user custom filter,
// compiling and caching it on first use. Custom filter patterns were
// already validated at registration time, so compilation here only
// fails if a filter bypassed registration.
func (rs *RuleSet) CompileCustom(f models.ContentFilter) (*CompiledFilter, error) {
	rs.customMu.RLock()
	cf, ok := rs.custom[f.ID]
	rs.customMu.RUnlock()
	if ok {
		return cf, nil
	}

	patterns, err := CompilePatterns(f.Patterns)
	if err != nil {
		return nil, err
	}

	cf = &CompiledFilter{Filter: f, Patterns: patterns}

	rs.customMu.Lock()
	rs.custom[f.ID] = cf
	rs.customMu.Unlock()

	return cf, nil
}

// ForgetCustom drops a custom filter from the compilation cache, for
// use when the filter is removed.
func (rs *RuleSet) ForgetCustom(filterID string) {
	rs.customMu.Lock()
	delete(rs.custom, filterID)
	rs.customMu.Unlock()
}

// DefaultFilters returns the built-in filter set. Pattern lists mix
// Japanese and English expressions because the dialogue application
// serves both locales.
func DefaultFilters() []models.ContentFilter {
	return []models.ContentFilter{
		{
			ID:       constants.FilterIDPersonalInfo,
			Name:     "Personal Information",
			Category: models.CategoryDialogue,
			Patterns: []string{
				`0\d{1,4}-\d{1,4}-\d{4}`,                       // Japanese phone numbers
				`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, // email addresses
				`〒?\d{3}-\d{4}`,                                // postal codes
				`\d{4}[ \-]\d{4}[ \-]\d{4}[ \-]\d{4}`,          // card numbers
			},
			Severity: models.SeverityCritical,
			Action:   models.ActionBlock,
			IsActive: true,
		},
		{
			ID:       constants.FilterIDProfanity,
			Name:     "Profanity",
			Category: models.CategoryDialogue,
			Patterns: []string{
				"fuck", "shit", "bitch", "asshole",
				"くそったれ", "クソ野郎", "死ね", "ばかやろう",
			},
			Severity: models.SeverityHigh,
			Action:   models.ActionFilter,
			IsActive: true,
		},
		{
			ID:       constants.FilterIDHarassment,
			Name:     "Harassment",
			Category: models.CategoryDialogue,
			Patterns: []string{
				"harass", "stalk(er|ing)?", "doxx?",
				"嫌がらせ", "つきまとい", "晒す",
			},
			Severity: models.SeverityHigh,
			Action:   models.ActionBlock,
			IsActive: true,
		},
		{
			ID:       constants.FilterIDViolence,
			Name:     "Violence",
			Category: models.CategoryDialogue,
			Patterns: []string{
				"murder", "torture", `\bgore\b`,
				"殺人", "拷問", "血まみれ",
			},
			Severity: models.SeverityMedium,
			Action:   models.ActionWarn,
			IsActive: true,
		},
		{
			ID:       constants.FilterIDAdultContent,
			Name:     "Adult Content",
			Category: models.CategoryDialogue,
			Patterns: []string{
				`\bporn\b`, `\bnude\b`, "explicit sex",
				"アダルト", "えっちな", "性的な描写",
			},
			Severity: models.SeverityHigh,
			Action:   models.ActionReport,
			IsActive: true,
		},
		{
			ID:       constants.FilterIDSpam,
			Name:     "Spam",
			Category: models.CategoryDialogue,
			Patterns: []string{
				"click here", "buy now", `https?://[^\s]+`,
				"今すぐクリック", "無料プレゼント", "絶対儲かる",
			},
			Severity: models.SeverityLow,
			Action:   models.ActionWarn,
			IsActive: true,
		},
	}
}
