package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/config"
	"github.com/hanachat/contentguard/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	// Set global log level
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		// Default to info level if invalid
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure logger output format
	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    false, // Enable colors for development
		}
	}

	// Set global logger
	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()

	log.Info().Msg("Logger initialized")
}

// RequestLogger creates a logger with request-specific context
func RequestLogger(requestID, userID, method, path string) zerolog.Logger {
	logger := log.With().
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path)

	if userID != "" {
		logger = logger.Str(constants.UserIDContextKey, MaskValue(userID))
	}

	return logger.Logger()
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr string, statusCode int, latency time.Duration) {
	// Skip high-volume endpoints in non-debug mode
	if path == constants.HealthPath && zerolog.GlobalLevel() != zerolog.DebugLevel {
		return
	}

	event := log.Debug()

	// Elevate error responses to warning/error level
	if statusCode >= 400 && statusCode < 500 {
		event = log.Warn()
	} else if statusCode >= 500 {
		event = log.Error()
	} else if strings.HasPrefix(path, constants.APIBasePath) {
		// Log API requests at info level
		event = log.Info()
	}

	event.
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogError logs an error with context information. String values in the
// context that look like identifying data are masked before logging.
func LogError(err error, context map[string]interface{}) {
	event := log.Error().Err(err)

	for key, value := range context {
		switch v := value.(type) {
		case string:
			if isIdentifyingKey(key) {
				event = event.Str(key, MaskValue(v))
			} else {
				event = event.Str(key, v)
			}
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	event.Msg("Error occurred")
}

// LogDBQuery logs a storage query execution at debug level, or at error
// level when the query failed. Query arguments are never logged because
// secure payloads travel through them.
func LogDBQuery(query string, argCount int, duration time.Duration, err error) {
	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", strings.Join(strings.Fields(query), " ")).
		Int("args", argCount).
		Dur("duration", duration).
		Msg("Storage query executed")
}

// LogPanic logs a recovered panic value
func LogPanic(recovered interface{}, stack []byte) {
	log.Error().
		Interface("panic", recovered).
		Str("stack", string(stack)).
		Msg("Panic recovered")
}

// isIdentifyingKey reports whether a log field name is likely to carry
// identifying data that should not land in logs verbatim.
func isIdentifyingKey(key string) bool {
	k := strings.ToLower(key)
	return k == constants.UserIDContextKey ||
		strings.Contains(k, "email") ||
		strings.Contains(k, "password") ||
		strings.Contains(k, "phone") ||
		strings.Contains(k, "name")
}

// MaskValue masks an identifying string for log output, keeping only
// the first two characters.
func MaskValue(v string) string {
	if v == "" {
		return ""
	}
	runes := []rune(v)
	if len(runes) <= constants.AnonymizeVisiblePrefix {
		return constants.AnonymizeMask
	}
	return string(runes[:constants.AnonymizeVisiblePrefix]) + constants.AnonymizeMask
}

// MaskEmail masks an email address for log output, keeping the first
// two characters of the local part and the full domain.
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return MaskValue(email)
	}
	return MaskValue(parts[0]) + "@" + parts[1]
}

// GetLogLevel returns the current global log level as a string
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel updates the global log level
func SetLogLevel(level string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return NewBadRequestError("invalid log level: " + level)
	}

	zerolog.SetGlobalLevel(parsedLevel)
	log.Info().Str("level", parsedLevel.String()).Msg("Log level changed")

	return nil
}
