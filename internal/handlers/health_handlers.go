package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hanachat/contentguard/internal/utils"
)

// HealthChecker is anything that can verify its own availability.
// Storage backends implement it; the memory backend needs no check and
// passes nil.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles the health endpoint.
type HealthHandler struct {
	checker HealthChecker
	version string
}

// NewHealthHandler creates a new HealthHandler. checker may be nil when
// no dependency needs probing.
func NewHealthHandler(checker HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		version: version,
	}
}

// Health reports service availability, probing the storage backend when
// one is configured.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.checker != nil {
		if err := h.checker.HealthCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["storage"] = "unavailable"
			utils.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["storage"] = "ok"
	}

	utils.JSON(w, http.StatusOK, status)
}
