// Package models provides the data structures for the contentguard
// application. This file contains the content filter model used by the
// scanner to detect inadmissible content.
package models

import (
	"github.com/hanachat/contentguard/internal/constants"
)

// FilterCategory describes which kind of content a filter applies to.
type FilterCategory string

// Available filter categories
const (
	CategoryDialogue  FilterCategory = constants.CategoryDialogue
	CategoryScenario  FilterCategory = constants.CategoryScenario
	CategoryCharacter FilterCategory = constants.CategoryCharacter
	CategoryMedia     FilterCategory = constants.CategoryMedia
)

// Severity grades how serious a detected issue is.
type Severity string

// Available severities, ordered from least to most serious
const (
	SeverityLow      Severity = constants.SeverityLow
	SeverityMedium   Severity = constants.SeverityMedium
	SeverityHigh     Severity = constants.SeverityHigh
	SeverityCritical Severity = constants.SeverityCritical
)

// FilterAction describes what the scanner does when a filter matches.
type FilterAction string

// Available filter actions
const (
	ActionWarn   FilterAction = constants.ActionWarn
	ActionFilter FilterAction = constants.ActionFilter
	ActionBlock  FilterAction = constants.ActionBlock
	ActionReport FilterAction = constants.ActionReport
)

// ContentFilter represents a single content filter: an ordered list of
// patterns together with the severity and action applied when any of
// them matches. Built-in filters are immutable; custom filters are
// user-owned and mutable only by add/remove.
type ContentFilter struct {
	// ID is the unique identifier for this filter
	ID string `json:"id" validate:"required"`

	// Name is a human-readable label for the filter
	Name string `json:"name" validate:"required"`

	// Category restricts the filter to one kind of content
	Category FilterCategory `json:"category" validate:"required,oneof=dialogue scenario character media"`

	// Patterns is the ordered list of pattern expressions evaluated
	// against scanned content (case-insensitive substring or regex)
	Patterns []string `json:"patterns" validate:"required,min=1,dive,required"`

	// Severity is attached to every issue this filter produces
	Severity Severity `json:"severity" validate:"required,oneof=low medium high critical"`

	// Action determines how the scanner reacts to a match
	Action FilterAction `json:"action" validate:"required,oneof=warn filter block report"`

	// IsActive disables the filter without removing it
	IsActive bool `json:"is_active"`
}

// ValidSeverity checks if the provided severity is one of the known values.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ValidCategory checks if the provided category is one of the known values.
func ValidCategory(c FilterCategory) bool {
	switch c {
	case CategoryDialogue, CategoryScenario, CategoryCharacter, CategoryMedia:
		return true
	}
	return false
}

// SeverityRank returns a numeric ordering for severities so that they
// can be compared. Unknown severities rank lowest.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// CustomFilterCreate represents a request to register a new custom
// filter for a user.
type CustomFilterCreate struct {
	Name     string   `json:"name" validate:"required,min=1,max=100"`
	Category string   `json:"category" validate:"required,oneof=dialogue scenario character media"`
	Patterns []string `json:"patterns" validate:"required,min=1,max=20,dive,required,min=1"`
	Severity string   `json:"severity" validate:"required,oneof=low medium high critical"`
	Action   string   `json:"action" validate:"required,oneof=warn filter block report"`
}

// CustomFilterDelete represents a request to remove custom filters by ID.
type CustomFilterDelete struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}
