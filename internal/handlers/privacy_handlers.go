package handlers

import (
	"fmt"
	"net/http"

	"github.com/hanachat/contentguard/internal/constants"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/security"
	"github.com/hanachat/contentguard/internal/utils"
)

// PrivacyHandler handles the data-subject privacy routes. These routes
// sit behind JWT authentication with the privacy role.
type PrivacyHandler struct {
	compliance *security.ComplianceService
}

// NewPrivacyHandler creates a new PrivacyHandler.
func NewPrivacyHandler(compliance *security.ComplianceService) *PrivacyHandler {
	return &PrivacyHandler{
		compliance: compliance,
	}
}

// exportContentType maps an export format to its MIME type.
func exportContentType(format string) string {
	switch format {
	case constants.ExportFormatCSV:
		return "text/csv"
	case constants.ExportFormatXML:
		return "application/xml"
	}
	return "application/json"
}

// ExportData generates a data export for a user and returns it as a
// downloadable attachment.
func (h *PrivacyHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	var req models.DataExportRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.compliance.ExportUserData(r.Context(), req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	filename := fmt.Sprintf("export_%s.%s", result.GeneratedAt.Format("20060102T150405"), result.Format)
	utils.SendFile(w, filename, exportContentType(result.Format), result.Data)
}

// DeleteData removes or anonymizes a user's stored data.
func (h *PrivacyHandler) DeleteData(w http.ResponseWriter, r *http.Request) {
	var req models.DataDeletionRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.compliance.RequestDataDeletion(r.Context(), req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// ComplianceReport enumerates the data categories held for a user.
func (h *PrivacyHandler) ComplianceReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	report, err := h.compliance.GeneratePrivacyReport(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, report)
}
