package constants

// API route paths
const (
	APIBasePath = "/api"
	HealthPath  = "/health"

	ContentScanPath     = "/api/content/scan"
	ContentValidatePath = "/api/content/validate"
	PreferencesPath     = "/api/preferences"
	SecureDataPath      = "/api/secure"
	PrivacyExportPath   = "/api/privacy/export"
	PrivacyDeletePath   = "/api/privacy/delete"
	PrivacyReportPath   = "/api/privacy/report"
	AuditLogsPath       = "/api/audit/logs"
)
