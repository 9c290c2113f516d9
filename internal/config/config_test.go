package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile writes a temporary YAML config and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields pure defaults", func(t *testing.T) {
		// Act
		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, "contentguard", cfg.App.Name)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.ServerAddress())
		assert.Equal(t, "memory", cfg.Storage.Backend)
		assert.Equal(t, 15*time.Minute, cfg.JWT.Expiry)
		assert.Equal(t, 100000, cfg.Security.KDFIterations)
		assert.Equal(t, 0.5, cfg.Scanner.ConfidenceCutoff)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
app:
  environment: testing
  version: 2.0.0
server:
  port: 9090
jwt:
  issuer: custom-issuer
`)

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "testing", cfg.App.Environment)
		assert.Equal(t, "2.0.0", cfg.App.Version)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "custom-issuer", cfg.JWT.Issuer)
		// Untouched values still default
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
server:
  port: 9090
`)
		t.Setenv("SERVER_PORT", "7070")
		t.Setenv("APP_ENV", "testing")

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "testing", cfg.App.Environment)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, "server: [not a map")

		// Act
		_, err := Load(path)

		// Assert
		assert.Error(t, err)
	})

	t.Run("production requires real secrets", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
app:
  environment: production
`)

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret")
	})

	t.Run("production with secrets passes", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
app:
  environment: production
jwt:
  secret: real-secret
security:
  app_secret: real-app-secret
`)

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("sql backend requires a dsn", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
storage:
  backend: sql
  driver: postgres
`)

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DSN")
	})

	t.Run("unknown storage backend is rejected", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
storage:
  backend: redis
`)

		// Act
		_, err := Load(path)

		// Assert
		assert.Error(t, err)
	})

	t.Run("weakened kdf iterations are rejected", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
security:
  kdf_iterations: 1000
`)

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KDF iterations")
	})

	t.Run("invalid log level is rejected", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
logging:
  level: verbose
`)

		// Act
		_, err := Load(path)

		// Assert
		assert.Error(t, err)
	})

	t.Run("unknown environment falls back to development", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
app:
  environment: staging
`)

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.App.Environment)
	})
}
