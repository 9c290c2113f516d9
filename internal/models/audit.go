package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanachat/contentguard/internal/constants"
)

// AuditResult describes the outcome of an audited operation.
type AuditResult string

// Available audit results
const (
	AuditSuccess AuditResult = constants.AuditResultSuccess
	AuditFailure AuditResult = constants.AuditResultFailure
	AuditBlocked AuditResult = constants.AuditResultBlocked
)

// RiskLevel classifies how concerning an audit entry is.
type RiskLevel string

// Available risk levels
const (
	RiskLow      RiskLevel = constants.RiskLow
	RiskMedium   RiskLevel = constants.RiskMedium
	RiskHigh     RiskLevel = constants.RiskHigh
	RiskCritical RiskLevel = constants.RiskCritical
)

// AuditEntry records one security-relevant operation. Entries are
// append-only: once recorded they are pruned by age, never edited.
type AuditEntry struct {
	// ID uniquely identifies the entry
	ID string `json:"id"`

	// UserID is the user the operation was performed for
	UserID string `json:"user_id"`

	// Action names the operation (encryption, decryption, data_export, ...)
	Action string `json:"action"`

	// Resource identifies what the operation touched
	Resource string `json:"resource"`

	// Timestamp records when the operation happened
	Timestamp time.Time `json:"timestamp"`

	// Result is the operation outcome
	Result AuditResult `json:"result"`

	// Details carries free-form context about the operation
	Details map[string]interface{} `json:"details,omitempty"`

	// RiskLevel is assigned by the audit log's classification policy
	RiskLevel RiskLevel `json:"risk_level"`
}

// NewAuditEntry creates an audit entry with a fresh ID and the current
// time. The risk level is assigned when the entry is recorded.
func NewAuditEntry(userID, action, resource string, result AuditResult, details map[string]interface{}) *AuditEntry {
	return &AuditEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Timestamp: time.Now(),
		Result:    result,
		Details:   details,
	}
}

// AuditQuery filters audit entries. Nil time bounds and empty strings
// match everything.
type AuditQuery struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	Action    string     `json:"action,omitempty"`
}
