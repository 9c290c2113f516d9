// Package handlers provides the HTTP handlers for the contentguard API.
package handlers

import (
	"net/http"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/service"
	"github.com/hanachat/contentguard/internal/utils"
)

// ContentHandler handles content scanning and rating validation routes.
type ContentHandler struct {
	contentService *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// scanResponse augments the scan verdict with the text the caller
// should render: the original content when admissible, the redacted
// copy when a filter rewrote it, or the localized fallback when
// blocked.
type scanResponse struct {
	*models.ContentScanResult
	DisplayContent string `json:"display_content"`
}

// ScanContent scans a piece of content and returns the structured
// verdict together with the resolved display text. Inadmissible content
// is a 200 response with is_allowed false, not an error.
func (h *ContentHandler) ScanContent(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var req models.ScanRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Run the scan
	result, err := h.contentService.Scan(r.Context(), req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the verdict with the text to render for it
	utils.JSON(w, http.StatusOK, scanResponse{
		ContentScanResult: result,
		DisplayContent:    h.contentService.DisplayContent(result, req.Content, req.Locale),
	})
}

// ValidateRating checks content against a requested rating and returns
// the validation outcome with a suggested rating.
func (h *ContentHandler) ValidateRating(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var req models.ValidateRatingRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Run the validation
	validation, err := h.contentService.ValidateRating(r.Context(), req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the outcome
	utils.JSON(w, http.StatusOK, validation)
}
