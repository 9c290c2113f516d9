package handlers

import (
	"net/http"
	"time"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/security"
	"github.com/hanachat/contentguard/internal/utils"
)

// AuditHandler handles audit log routes. These routes sit behind JWT
// authentication with the audit role.
type AuditHandler struct {
	audit *security.AuditLog
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit *security.AuditLog) *AuditHandler {
	return &AuditHandler{
		audit: audit,
	}
}

// QueryLogs returns the audit entries matching the query parameters,
// newest first. Supported parameters: start_date, end_date (RFC 3339),
// user_id, action.
func (h *AuditHandler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	query := models.AuditQuery{
		UserID: r.URL.Query().Get("user_id"),
		Action: r.URL.Query().Get("action"),
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "validation_error", "start_date must be an RFC 3339 timestamp", nil)
			return
		}
		query.StartDate = &start
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "validation_error", "end_date must be an RFC 3339 timestamp", nil)
			return
		}
		query.EndDate = &end
	}

	entries := h.audit.Query(query)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// Cleanup removes audit entries past the retention period.
func (h *AuditHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed := h.audit.Cleanup()

	utils.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}
