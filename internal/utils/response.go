package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Response represents a standardized API response.
// All API endpoints return responses in this format for consistency.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details about the error
}

// JSON sends a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code, error code
// and message.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response derived from an AppError.
func ErrorFromAppError(w http.ResponseWriter, appErr *AppError) {
	code := errorCode(appErr)

	var details map[string]string
	if appErr.Field != "" {
		details = map[string]string{appErr.Field: appErr.Message}
	}

	Error(w, appErr.StatusCode, code, appErr.Message, details)
}

// SendJSON writes the response object as JSON to the response writer.
func SendJSON(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// SendFile sends raw bytes as a downloadable attachment.
func SendFile(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write file response")
	}
}

// errorCode maps an AppError to a machine-readable error code.
func errorCode(appErr *AppError) string {
	switch {
	case IsValidationError(appErr):
		return "validation_error"
	case IsNotFoundError(appErr):
		return "not_found"
	case IsIntegrityError(appErr):
		return "integrity_error"
	case IsDecryptionError(appErr):
		return "decryption_error"
	case IsStorageTimeout(appErr):
		return "storage_timeout"
	case appErr.StatusCode == http.StatusUnauthorized:
		return "unauthorized"
	case appErr.StatusCode == http.StatusForbidden:
		return "policy_violation"
	case appErr.StatusCode == http.StatusServiceUnavailable:
		return "storage_error"
	default:
		return "internal_error"
	}
}
