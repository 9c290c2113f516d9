package constants

import "time"

// Environments
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Server defaults
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Logging defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// JWT defaults
const (
	DefaultJWTExpiry = 15 * time.Minute
	DefaultJWTIssuer = "contentguard"
)

// Database defaults
const (
	DefaultDBDriver         = "mysql"
	DefaultDBMaxConnections = 10
	DefaultDBMinConnections = 2
)

// Context key names
const (
	UserIDContextKey    = "user_id"
	RequestIDContextKey = "request_id"
)

// LogRedactedValue replaces sensitive values in log output.
const LogRedactedValue = "[REDACTED]"

// Rate limit categories
const (
	RateCategoryScan    = "scan"
	RateCategorySecure  = "secure"
	RateCategoryPrivacy = "privacy"
)
