package models

import (
	"time"
)

// DataExportRequest asks for a copy of everything stored about a user.
type DataExportRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Format string `json:"format" validate:"required,oneof=json csv xml"`
}

// DataExportResult describes a completed export. The artifact itself is
// returned to the caller and never persisted.
type DataExportResult struct {
	UserID      string    `json:"user_id"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
	SizeBytes   int       `json:"size_bytes"`
	Data        []byte    `json:"-"`
}

// DataDeletionRequest asks for a user's data to be removed or
// anonymized.
type DataDeletionRequest struct {
	UserID string `json:"user_id" validate:"required"`
	// Scope is "complete" (remove everything) or "partial" (anonymize
	// identifying fields in place)
	Scope string `json:"scope" validate:"required,oneof=partial complete"`
}

// DataDeletionResult summarizes what a deletion request removed.
type DataDeletionResult struct {
	UserID          string    `json:"user_id"`
	Scope           string    `json:"scope"`
	CompletedAt     time.Time `json:"completed_at"`
	ItemsRemoved    int       `json:"items_removed"`
	ItemsAnonymized int       `json:"items_anonymized"`
}

// DataCategoryInfo describes one category of stored data for the
// privacy compliance report.
type DataCategoryInfo struct {
	Category      string `json:"category"`
	Purpose       string `json:"purpose"`
	RetentionDays int    `json:"retention_days"`
	ConsentGiven  bool   `json:"consent_given"`
}

// PrivacyComplianceReport enumerates the data categories held for a
// user. It is derived on demand and never persisted.
type PrivacyComplianceReport struct {
	UserID      string             `json:"user_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Categories  []DataCategoryInfo `json:"categories"`
}

// ExportedUserData is the shape serialized by the export workflow.
type ExportedUserData struct {
	UserID        string                  `json:"user_id"`
	ExportedAt    time.Time               `json:"exported_at"`
	Preferences   *UserContentPreferences `json:"preferences,omitempty"`
	SecureEntries []ExportedSecureEntry   `json:"secure_entries,omitempty"`
	AuditTrail    []*AuditEntry           `json:"audit_trail,omitempty"`
}

// ExportedSecureEntry describes a stored secure container without
// revealing its contents.
type ExportedSecureEntry struct {
	Key       string    `json:"key"`
	Algorithm string    `json:"algorithm"`
	Version   string    `json:"version"`
	StoredAt  time.Time `json:"stored_at"`
}
