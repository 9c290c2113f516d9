package filter

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/utils"
)

// Reporter receives moderation reports emitted when a filter with the
// report action matches content.
type Reporter interface {
	Report(report models.ModerationReport)
}

// LogReporter emits moderation reports as structured log events. It is
// the default sink; deployments can substitute a queue-backed one.
type LogReporter struct{}

// NewLogReporter creates a log-backed moderation reporter.
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// Report assigns the report an ID and logs it. User IDs are masked
// because moderation logs are reviewed by humans.
func (r *LogReporter) Report(report models.ModerationReport) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	log.Warn().
		Str("report_id", report.ID).
		Str("user_id", utils.MaskValue(report.UserID)).
		Str("filter_id", report.FilterID).
		Str("category", string(report.Category)).
		Str("severity", string(report.Severity)).
		Str("content_hash", report.ContentHash).
		Msg("Moderation report")
}
