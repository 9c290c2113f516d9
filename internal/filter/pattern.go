// Package filter implements the content-filtering pipeline: compiled
// pattern matching, the built-in rule set, rating guidelines, the
// content scanner, and the rating validator.
package filter

import (
	"fmt"
	"regexp"

	"github.com/hanachat/contentguard/internal/utils"
)

// Pattern is a compiled, case-insensitive content pattern. Patterns
// are compiled once at filter-registration time so that malformed
// definitions fail fast and scans never pay recompilation cost.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// CompilePattern validates and compiles a single pattern expression.
// The expression is interpreted as a case-insensitive regular
// expression; plain words therefore behave as substring matches.
func CompilePattern(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, utils.NewValidationError("pattern", "pattern must not be empty")
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, utils.NewValidationError("pattern", fmt.Sprintf("invalid pattern %q: %v", expr, err))
	}

	return &Pattern{raw: expr, re: re}, nil
}

// CompilePatterns compiles an ordered list of pattern expressions,
// failing on the first malformed one.
func CompilePatterns(exprs []string) ([]*Pattern, error) {
	patterns := make([]*Pattern, 0, len(exprs))
	for _, expr := range exprs {
		p, err := CompilePattern(expr)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// String returns the original pattern expression.
func (p *Pattern) String() string {
	return p.raw
}

// Matches reports whether the pattern occurs anywhere in the text.
func (p *Pattern) Matches(text string) bool {
	return p.re.MatchString(text)
}

// FindAll returns the byte-offset spans of every non-overlapping match
// in the text.
func (p *Pattern) FindAll(text string) [][]int {
	return p.re.FindAllStringIndex(text, -1)
}

// runeOffset converts a byte offset in text to a rune offset.
func runeOffset(text string, byteOffset int) int {
	count := 0
	for i := range text {
		if i >= byteOffset {
			break
		}
		count++
	}
	return count
}
