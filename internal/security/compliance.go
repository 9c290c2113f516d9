package security

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/storage"
	"github.com/hanachat/contentguard/internal/utils"
)

// profileKey returns the storage key of a user's plain profile blob.
func profileKey(userID string) string {
	return constants.ProfileStorageKeyPrefix + userID
}

// ComplianceService implements the data-subject workflows: export,
// deletion, and the privacy compliance report. Every workflow is
// recorded in the audit log.
type ComplianceService struct {
	store storage.Store
	audit *AuditLog
}

// NewComplianceService creates a compliance service.
func NewComplianceService(store storage.Store, audit *AuditLog) *ComplianceService {
	return &ComplianceService{
		store: store,
		audit: audit,
	}
}

// ExportUserData collects everything stored about a user and serializes
// it in the requested format. Secure containers are described by their
// metadata only; ciphertext never appears in an export.
//
// Parameters:
//   - ctx: the request context
//   - req: the export request naming the user and format
//
// Returns:
//   - *models.DataExportResult: the export artifact and its metadata
//   - error: an AppError if collection or serialization failed
func (c *ComplianceService) ExportUserData(ctx context.Context, req models.DataExportRequest) (*models.DataExportResult, error) {
	export, err := c.collect(ctx, req.UserID)
	if err != nil {
		c.record(req.UserID, constants.AuditActionDataExport, models.AuditFailure, map[string]interface{}{
			"format": req.Format,
		})
		return nil, err
	}

	var data []byte
	switch req.Format {
	case constants.ExportFormatJSON:
		data, err = json.MarshalIndent(export, "", "  ")
	case constants.ExportFormatCSV:
		data, err = marshalCSV(export)
	case constants.ExportFormatXML:
		data, err = marshalXML(export)
	default:
		err = utils.NewBadRequestError(fmt.Sprintf("unsupported export format: %s", req.Format))
	}
	if err != nil {
		c.record(req.UserID, constants.AuditActionDataExport, models.AuditFailure, map[string]interface{}{
			"format": req.Format,
		})
		return nil, err
	}

	c.record(req.UserID, constants.AuditActionDataExport, models.AuditSuccess, map[string]interface{}{
		"format":     req.Format,
		"size_bytes": len(data),
	})

	return &models.DataExportResult{
		UserID:      req.UserID,
		Format:      req.Format,
		GeneratedAt: timeNow(),
		SizeBytes:   len(data),
		Data:        data,
	}, nil
}

// collect gathers a user's preferences, secure entry metadata, and
// audit trail.
func (c *ComplianceService) collect(ctx context.Context, userID string) (*models.ExportedUserData, error) {
	export := &models.ExportedUserData{
		UserID:     userID,
		ExportedAt: timeNow(),
	}

	prefs, err := c.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	export.Preferences = prefs

	keys, err := c.store.ListSecureKeys(ctx, userID+":")
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		container, err := c.store.GetSecureData(ctx, key)
		if err != nil {
			return nil, err
		}
		if container == nil {
			continue
		}
		export.SecureEntries = append(export.SecureEntries, models.ExportedSecureEntry{
			Key:       key,
			Algorithm: container.Algorithm,
			Version:   container.Version,
			StoredAt:  container.Timestamp,
		})
	}

	export.AuditTrail = c.audit.Query(models.AuditQuery{UserID: userID})

	return export, nil
}

// RequestDataDeletion removes or anonymizes a user's stored data.
//
// The complete scope removes the user's preferences, every secure
// container, and the profile blob. The partial scope keeps the data but
// rewrites the profile blob with identifying fields masked.
func (c *ComplianceService) RequestDataDeletion(ctx context.Context, req models.DataDeletionRequest) (*models.DataDeletionResult, error) {
	result := &models.DataDeletionResult{
		UserID: req.UserID,
		Scope:  req.Scope,
	}

	var err error
	switch req.Scope {
	case constants.DeletionScopeComplete:
		err = c.deleteAll(ctx, req.UserID, result)
	case constants.DeletionScopePartial:
		err = c.anonymizeProfile(ctx, req.UserID, result)
	default:
		err = utils.NewBadRequestError(fmt.Sprintf("unsupported deletion scope: %s", req.Scope))
	}

	if err != nil {
		c.record(req.UserID, constants.AuditActionDataDeletion, models.AuditFailure, map[string]interface{}{
			"scope": req.Scope,
		})
		return nil, err
	}

	result.CompletedAt = timeNow()

	c.record(req.UserID, constants.AuditActionDataDeletion, models.AuditSuccess, map[string]interface{}{
		"scope":            req.Scope,
		"items_removed":    result.ItemsRemoved,
		"items_anonymized": result.ItemsAnonymized,
	})

	log.Info().
		Str("scope", req.Scope).
		Int("items_removed", result.ItemsRemoved).
		Int("items_anonymized", result.ItemsAnonymized).
		Msg("Data deletion request completed")

	return result, nil
}

// deleteAll removes everything stored for the user.
func (c *ComplianceService) deleteAll(ctx context.Context, userID string, result *models.DataDeletionResult) error {
	keys, err := c.store.ListSecureKeys(ctx, userID+":")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.DeleteSecureData(ctx, key); err != nil {
			return err
		}
		result.ItemsRemoved++
	}

	prefs, err := c.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if prefs != nil {
		if err := c.store.DeleteUserPreferences(ctx, userID); err != nil {
			return err
		}
		result.ItemsRemoved++
	}

	profile, err := c.store.Get(ctx, profileKey(userID))
	if err != nil {
		return err
	}
	if profile != nil {
		if err := c.store.Delete(ctx, profileKey(userID)); err != nil {
			return err
		}
		result.ItemsRemoved++
	}

	return nil
}

// anonymizeProfile rewrites the user's profile blob with identifying
// fields masked. A user without a profile blob has nothing to
// anonymize, which is not an error.
func (c *ComplianceService) anonymizeProfile(ctx context.Context, userID string, result *models.DataDeletionResult) error {
	raw, err := c.store.Get(ctx, profileKey(userID))
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var profile interface{}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return utils.NewInternalServerError(fmt.Errorf("corrupt profile blob: %w", err))
	}

	masked := AnonymizePersonalData(profile)

	out, err := json.Marshal(masked)
	if err != nil {
		return utils.NewInternalServerError(err)
	}
	if err := c.store.Save(ctx, profileKey(userID), out); err != nil {
		return err
	}

	result.ItemsAnonymized++
	return nil
}

// GeneratePrivacyReport enumerates the data categories held for a user
// together with their purpose, retention, and the user's consent state.
func (c *ComplianceService) GeneratePrivacyReport(ctx context.Context, userID string) (*models.PrivacyComplianceReport, error) {
	prefs, err := c.store.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys, err := c.store.ListSecureKeys(ctx, userID+":")
	if err != nil {
		return nil, err
	}

	shareConversations := false
	allowAnalytics := false
	if prefs != nil {
		shareConversations = prefs.PrivacySettings.ShareConversationData
		allowAnalytics = prefs.PrivacySettings.AllowAnalytics
	}

	report := &models.PrivacyComplianceReport{
		UserID:      userID,
		GeneratedAt: timeNow(),
		Categories:  []models.DataCategoryInfo{},
	}

	if prefs != nil {
		report.Categories = append(report.Categories, models.DataCategoryInfo{
			Category:      "content_preferences",
			Purpose:       "content filtering configuration",
			RetentionDays: 0,
			ConsentGiven:  true,
		})
	}
	if len(keys) > 0 {
		report.Categories = append(report.Categories, models.DataCategoryInfo{
			Category:      "secure_data",
			Purpose:       "encrypted user data storage",
			RetentionDays: 0,
			ConsentGiven:  shareConversations,
		})
	}
	if entries := c.audit.Query(models.AuditQuery{UserID: userID}); len(entries) > 0 {
		report.Categories = append(report.Categories, models.DataCategoryInfo{
			Category:      "audit_trail",
			Purpose:       "security monitoring",
			RetentionDays: int(constants.AuditRetentionPeriod.Hours() / 24),
			ConsentGiven:  allowAnalytics,
		})
	}

	c.record(userID, constants.AuditActionPrivacyReport, models.AuditSuccess, map[string]interface{}{
		"categories": len(report.Categories),
	})

	return report, nil
}

// record appends a compliance audit entry.
func (c *ComplianceService) record(userID, action string, result models.AuditResult, details map[string]interface{}) {
	c.audit.Record(models.NewAuditEntry(userID, action, "user_data", result, details))
}

// marshalCSV flattens an export into section/key/value rows.
func marshalCSV(export *models.ExportedUserData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "key", "value"},
		{"export", "user_id", export.UserID},
		{"export", "exported_at", export.ExportedAt.Format("2006-01-02T15:04:05Z07:00")},
	}

	if export.Preferences != nil {
		rows = append(rows,
			[]string{"preferences", "content_rating", string(export.Preferences.ContentRating)},
			[]string{"preferences", "enabled_filters", strconv.Itoa(len(export.Preferences.EnabledFilters))},
			[]string{"preferences", "custom_filters", strconv.Itoa(len(export.Preferences.CustomFilters))},
		)
	}
	for _, entry := range export.SecureEntries {
		rows = append(rows, []string{"secure_data", entry.Key, entry.Algorithm})
	}
	for _, entry := range export.AuditTrail {
		rows = append(rows, []string{"audit", entry.Action, string(entry.Result)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, utils.NewInternalServerError(err)
	}
	return buf.Bytes(), nil
}

// xmlExport mirrors ExportedUserData without map-typed fields, which
// encoding/xml cannot marshal.
type xmlExport struct {
	XMLName       xml.Name         `xml:"user_data"`
	UserID        string           `xml:"user_id"`
	ExportedAt    string           `xml:"exported_at"`
	ContentRating string           `xml:"content_rating,omitempty"`
	SecureEntries []xmlSecureEntry `xml:"secure_entries>entry"`
	AuditTrail    []xmlAuditEntry  `xml:"audit_trail>entry"`
}

type xmlSecureEntry struct {
	Key       string `xml:"key"`
	Algorithm string `xml:"algorithm"`
	Version   string `xml:"version"`
}

type xmlAuditEntry struct {
	Action    string `xml:"action"`
	Result    string `xml:"result"`
	RiskLevel string `xml:"risk_level"`
	Timestamp string `xml:"timestamp"`
}

// marshalXML serializes an export as XML.
func marshalXML(export *models.ExportedUserData) ([]byte, error) {
	out := xmlExport{
		UserID:     export.UserID,
		ExportedAt: export.ExportedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if export.Preferences != nil {
		out.ContentRating = string(export.Preferences.ContentRating)
	}
	for _, entry := range export.SecureEntries {
		out.SecureEntries = append(out.SecureEntries, xmlSecureEntry{
			Key:       entry.Key,
			Algorithm: entry.Algorithm,
			Version:   entry.Version,
		})
	}
	for _, entry := range export.AuditTrail {
		out.AuditTrail = append(out.AuditTrail, xmlAuditEntry{
			Action:    entry.Action,
			Result:    string(entry.Result),
			RiskLevel: string(entry.RiskLevel),
			Timestamp: entry.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}
	return append([]byte(xml.Header), data...), nil
}
