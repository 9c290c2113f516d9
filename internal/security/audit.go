package security

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
)

// timeNow is stubbed by tests that exercise retention.
var timeNow = time.Now

// AuditLog is the in-memory, append-only record of security-relevant
// operations. Entries are classified with a risk level when recorded
// and pruned only by the retention policy, never edited.
type AuditLog struct {
	mu      sync.RWMutex
	entries []*models.AuditEntry
}

// NewAuditLog creates an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{
		entries: make([]*models.AuditEntry, 0),
	}
}

// Record classifies and appends an entry. When the log exceeds its size
// bound it is trimmed to the newest entries so recording never fails.
func (a *AuditLog) Record(entry *models.AuditEntry) {
	entry.RiskLevel = classifyRisk(entry)

	a.mu.Lock()
	a.entries = append(a.entries, entry)
	if len(a.entries) > constants.AuditMaxEntries {
		trimmed := len(a.entries) - constants.AuditTrimTarget
		a.entries = append(a.entries[:0:0], a.entries[trimmed:]...)
		log.Warn().
			Int("trimmed", trimmed).
			Msg("Audit log exceeded its size bound and was trimmed")
	}
	a.mu.Unlock()

	if entry.RiskLevel == models.RiskCritical || entry.RiskLevel == models.RiskHigh {
		log.Warn().
			Str("audit_id", entry.ID).
			Str("action", entry.Action).
			Str("result", string(entry.Result)).
			Str("risk_level", string(entry.RiskLevel)).
			Msg("High risk audit event")
	}
}

// Query returns the entries matching the filter, newest first. The
// result is a snapshot; later records do not affect it.
func (a *AuditLog) Query(q models.AuditQuery) []*models.AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	matched := make([]*models.AuditEntry, 0)
	for i := len(a.entries) - 1; i >= 0; i-- {
		entry := a.entries[i]
		if !matches(entry, q) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

// Len returns the number of entries currently held.
func (a *AuditLog) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Cleanup removes entries older than the retention period and returns
// how many were removed. Retention is enforced only on explicit calls;
// recording never drops entries by age.
func (a *AuditLog) Cleanup() int {
	cutoff := timeNow().Add(-constants.AuditRetentionPeriod)

	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.entries[:0]
	for _, entry := range a.entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}

	removed := len(a.entries) - len(kept)
	a.entries = kept

	if removed > 0 {
		log.Info().
			Int("removed", removed).
			Msg("Expired audit entries removed")
	}
	return removed
}

// matches applies an AuditQuery to one entry.
func matches(entry *models.AuditEntry, q models.AuditQuery) bool {
	if q.StartDate != nil && entry.Timestamp.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && entry.Timestamp.After(*q.EndDate) {
		return false
	}
	if q.UserID != "" && entry.UserID != q.UserID {
		return false
	}
	if q.Action != "" && entry.Action != q.Action {
		return false
	}
	return true
}

// classifyRisk assigns a risk level from the entry's outcome and
// action. Failed or blocked cryptographic and security operations are
// critical; other failures are high; data deletion and export are
// medium even when they succeed; everything else is low.
func classifyRisk(entry *models.AuditEntry) models.RiskLevel {
	failed := entry.Result == models.AuditFailure || entry.Result == models.AuditBlocked

	if failed && securitySensitiveAction(entry.Action) {
		return models.RiskCritical
	}
	if failed {
		return models.RiskHigh
	}
	switch entry.Action {
	case constants.AuditActionDataDeletion, constants.AuditActionDataExport:
		return models.RiskMedium
	}
	return models.RiskLow
}

// securitySensitiveAction reports whether an action touches key
// material or the security envelope itself.
func securitySensitiveAction(action string) bool {
	return strings.Contains(action, "encryption") || strings.Contains(action, "security")
}
