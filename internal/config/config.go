// Package config loads the contentguard application configuration from
// a yaml file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/hanachat/contentguard/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App      AppSettings      `yaml:"app"`
	Server   ServerSettings   `yaml:"server"`
	Storage  StorageSettings  `yaml:"storage"`
	JWT      JWTSettings      `yaml:"jwt"`
	Logging  LoggingSettings  `yaml:"logging"`
	CORS     CORSSettings     `yaml:"cors"`
	Security SecuritySettings `yaml:"security"`
	Scanner  ScannerSettings  `yaml:"scanner"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageSettings selects and configures the storage collaborator.
// Backend "memory" keeps everything in process; "sql" uses the
// configured driver and DSN.
type StorageSettings struct {
	Backend  string        `yaml:"backend" env:"STORAGE_BACKEND"`
	Driver   string        `yaml:"driver" env:"STORAGE_DRIVER"`
	DSN      string        `yaml:"dsn" env:"STORAGE_DSN"`
	MaxConns int           `yaml:"max_conns" env:"STORAGE_MAX_CONNS"`
	MinConns int           `yaml:"min_conns" env:"STORAGE_MIN_CONNS"`
	Timeout  time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT"`
}

// JWTSettings contains JWT authentication settings for the privileged
// privacy and audit endpoints
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// SecuritySettings contains the encryption engine configuration
type SecuritySettings struct {
	// AppSecret seeds the user-keyed encryption path; it never leaves
	// the process
	AppSecret string `yaml:"app_secret" env:"SECURITY_APP_SECRET"`

	// KDFIterations overrides the key derivation iteration count
	KDFIterations int `yaml:"kdf_iterations" env:"SECURITY_KDF_ITERATIONS"`
}

// ScannerSettings exposes the scanning confidence math as
// configuration. The defaults preserve the reference behavior exactly.
type ScannerSettings struct {
	ConfidenceCutoff float64 `yaml:"confidence_cutoff" env:"SCANNER_CONFIDENCE_CUTOFF"`
	PenaltyCritical  float64 `yaml:"penalty_critical" env:"SCANNER_PENALTY_CRITICAL"`
	PenaltyHigh      float64 `yaml:"penalty_high" env:"SCANNER_PENALTY_HIGH"`
	PenaltyMedium    float64 `yaml:"penalty_medium" env:"SCANNER_PENALTY_MEDIUM"`
	PenaltyLow       float64 `yaml:"penalty_low" env:"SCANNER_PENALTY_LOW"`
	PenaltyDefault   float64 `yaml:"penalty_default" env:"SCANNER_PENALTY_DEFAULT"`
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment
// variables. Environment variables override file values.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Set defaults for missing values
	setDefaults(config)

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "contentguard"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultServerHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Storage.Backend == "" {
		config.Storage.Backend = "memory"
	}
	if config.Storage.Driver == "" {
		config.Storage.Driver = constants.DefaultDBDriver
	}
	if config.Storage.MaxConns == 0 {
		config.Storage.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Storage.MinConns == 0 {
		config.Storage.MinConns = constants.DefaultDBMinConnections
	}
	if config.Storage.Timeout == 0 {
		config.Storage.Timeout = constants.StorageTimeout
	}

	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	if config.Security.KDFIterations == 0 {
		config.Security.KDFIterations = constants.KDFIterations
	}

	if config.Scanner.ConfidenceCutoff == 0 {
		config.Scanner.ConfidenceCutoff = constants.ConfidenceCutoff
	}
	if config.Scanner.PenaltyCritical == 0 {
		config.Scanner.PenaltyCritical = constants.PenaltyCritical
	}
	if config.Scanner.PenaltyHigh == 0 {
		config.Scanner.PenaltyHigh = constants.PenaltyHigh
	}
	if config.Scanner.PenaltyMedium == 0 {
		config.Scanner.PenaltyMedium = constants.PenaltyMedium
	}
	if config.Scanner.PenaltyLow == 0 {
		config.Scanner.PenaltyLow = constants.PenaltyLow
	}
	if config.Scanner.PenaltyDefault == 0 {
		config.Scanner.PenaltyDefault = constants.PenaltyDefault
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().
			Str("environment", config.App.Environment).
			Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production a real JWT secret and app secret are mandatory
	if config.App.IsProduction() {
		if config.JWT.Secret == "" || config.JWT.Secret == "changeme" {
			return fmt.Errorf("JWT secret must be set in production")
		}
		if config.Security.AppSecret == "" {
			return fmt.Errorf("security app secret must be set in production")
		}
	}

	if config.Storage.Backend != "memory" && config.Storage.Backend != "sql" {
		return fmt.Errorf("invalid storage backend: %s", config.Storage.Backend)
	}
	if config.Storage.Backend == "sql" {
		if config.Storage.Driver != "mysql" && config.Storage.Driver != "postgres" {
			return fmt.Errorf("invalid storage driver: %s", config.Storage.Driver)
		}
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage DSN must be set for the sql backend")
		}
	}

	if config.Security.KDFIterations < constants.KDFIterations {
		return fmt.Errorf("KDF iterations must be at least %d", constants.KDFIterations)
	}

	if config.Scanner.ConfidenceCutoff < 0 || config.Scanner.ConfidenceCutoff > 1 {
		return fmt.Errorf("confidence cutoff must be between 0 and 1")
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	switch logLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("storage_backend", config.Storage.Backend).
		Str("storage_driver", config.Storage.Driver).
		Str("log_level", config.Logging.Level).
		Int("kdf_iterations", config.Security.KDFIterations).
		Msg("Configuration loaded")
}
