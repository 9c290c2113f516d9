package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/config"
	"github.com/hanachat/contentguard/internal/models"
	"github.com/hanachat/contentguard/internal/utils"
)

// SQLStore is a database/sql implementation of Store. It supports the
// mysql and postgres drivers; queries are written with `?` placeholders
// and rebound for postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore connects to the configured database, configures the
// connection pool, and verifies the connection.
func OpenSQLStore(cfg *config.StorageSettings) (*SQLStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().
		Str("driver", cfg.Driver).
		Msg("Connecting to storage database")

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to storage database")

	return &SQLStore{db: db, driver: cfg.Driver}, nil
}

// NewSQLStore wraps an existing database handle. Used by tests with a
// mocked connection.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	log.Info().Msg("Closing storage database connection pool")
	return s.db.Close()
}

// EnsureSchema creates the storage tables if they do not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plain_values (
            store_key VARCHAR(512) PRIMARY KEY,
            store_value TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS secure_containers (
            store_key VARCHAR(512) PRIMARY KEY,
            container TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
            user_id VARCHAR(255) PRIMARY KEY,
            preferences TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create storage schema: %w", err)
		}
	}

	log.Info().Msg("Storage schema ensured")
	return nil
}

// rebind converts `?` placeholders to `$N` for postgres. MySQL queries
// pass through unchanged.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsertQuery builds a two-column upsert for the given table. Both
// drivers take (key, value, updated_at) in that order, with the update
// side reusing the same value and timestamp.
func (s *SQLStore) upsertQuery(table, keyCol, valueCol string) string {
	if s.driver == "postgres" {
		return fmt.Sprintf(`
            INSERT INTO %s (%s, %s, updated_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (%s) DO UPDATE SET %s = $2, updated_at = $3
        `, table, keyCol, valueCol, keyCol, valueCol)
	}
	return fmt.Sprintf(`
        INSERT INTO %s (%s, %s, updated_at)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE %s = VALUES(%s), updated_at = VALUES(updated_at)
    `, table, keyCol, valueCol, valueCol, valueCol)
}

// Get retrieves a plain value by key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	startTime := time.Now()

	query := s.rebind(`
        SELECT store_value
        FROM plain_values
        WHERE store_key = ?
    `)

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, utils.NewStorageError(err)
	}
	return value, nil
}

// Save persists a plain value under a key.
func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	startTime := time.Now()

	query := s.upsertQuery("plain_values", "store_key", "store_value")
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now())

	utils.LogDBQuery(query, 3, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// Delete removes a plain value. Deleting an absent key is not an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	startTime := time.Now()

	query := s.rebind(`
        DELETE FROM plain_values
        WHERE store_key = ?
    `)

	_, err := s.db.ExecContext(ctx, query, key)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// GetSecureData retrieves a secure container by logical key.
func (s *SQLStore) GetSecureData(ctx context.Context, key string) (*models.SecureDataContainer, error) {
	startTime := time.Now()

	query := s.rebind(`
        SELECT container
        FROM secure_containers
        WHERE store_key = ?
    `)

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, utils.NewStorageError(err)
	}

	container := &models.SecureDataContainer{}
	if err := json.Unmarshal(raw, container); err != nil {
		return nil, utils.NewStorageError(fmt.Errorf("corrupt container at key %s: %w", key, err))
	}
	return container, nil
}

// SaveSecureData persists a secure container under a logical key. The
// container is serialized as JSON so schema changes never require a
// migration of the ciphertext column.
func (s *SQLStore) SaveSecureData(ctx context.Context, key string, container *models.SecureDataContainer) error {
	raw, err := json.Marshal(container)
	if err != nil {
		return utils.NewStorageError(err)
	}

	startTime := time.Now()

	query := s.upsertQuery("secure_containers", "store_key", "container")
	_, err = s.db.ExecContext(ctx, query, key, raw, time.Now())

	utils.LogDBQuery(query, 3, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// DeleteSecureData removes a secure container. Deleting an absent key
// is not an error.
func (s *SQLStore) DeleteSecureData(ctx context.Context, key string) error {
	startTime := time.Now()

	query := s.rebind(`
        DELETE FROM secure_containers
        WHERE store_key = ?
    `)

	_, err := s.db.ExecContext(ctx, query, key)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// ListSecureKeys returns the logical keys with the given prefix.
func (s *SQLStore) ListSecureKeys(ctx context.Context, prefix string) ([]string, error) {
	startTime := time.Now()

	query := s.rebind(`
        SELECT store_key
        FROM secure_containers
        WHERE store_key LIKE ?
        ORDER BY store_key
    `)

	pattern := escapeLike(prefix) + "%"
	rows, err := s.db.QueryContext(ctx, query, pattern)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		return nil, utils.NewStorageError(err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, utils.NewStorageError(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.NewStorageError(err)
	}
	return keys, nil
}

// GetUserPreferences retrieves a user's content preferences.
func (s *SQLStore) GetUserPreferences(ctx context.Context, userID string) (*models.UserContentPreferences, error) {
	startTime := time.Now()

	query := s.rebind(`
        SELECT preferences
        FROM user_preferences
        WHERE user_id = ?
    `)

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&raw)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, utils.NewStorageError(err)
	}

	prefs := &models.UserContentPreferences{}
	if err := json.Unmarshal(raw, prefs); err != nil {
		return nil, utils.NewStorageError(fmt.Errorf("corrupt preferences for user: %w", err))
	}
	return prefs, nil
}

// SaveUserPreferences persists a user's content preferences.
func (s *SQLStore) SaveUserPreferences(ctx context.Context, prefs *models.UserContentPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return utils.NewStorageError(err)
	}

	startTime := time.Now()

	query := s.upsertQuery("user_preferences", "user_id", "preferences")
	_, err = s.db.ExecContext(ctx, query, prefs.UserID, raw, time.Now())

	utils.LogDBQuery(query, 3, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// DeleteUserPreferences removes a user's content preferences.
func (s *SQLStore) DeleteUserPreferences(ctx context.Context, userID string) error {
	startTime := time.Now()

	query := s.rebind(`
        DELETE FROM user_preferences
        WHERE user_id = ?
    `)

	_, err := s.db.ExecContext(ctx, query, userID)

	utils.LogDBQuery(query, 1, time.Since(startTime), err)

	if err != nil {
		return utils.NewStorageError(err)
	}
	return nil
}

// HealthCheck verifies that the database answers queries.
func (s *SQLStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so a prefix match cannot be
// widened by % or _ in user-controlled key material.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
