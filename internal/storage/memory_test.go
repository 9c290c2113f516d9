package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/models"
)

func TestMemoryStore_PlainValues(t *testing.T) {
	ctx := context.Background()

	t.Run("saved values round trip", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()

		// Act
		require.NoError(t, store.Save(ctx, "k", []byte("v")))
		value, err := store.Get(ctx, "k")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), value)
	})

	t.Run("absent keys return nil without error", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()

		// Act
		value, err := store.Get(ctx, "missing")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, "k", []byte("abc")))

		// Act
		first, err := store.Get(ctx, "k")
		require.NoError(t, err)
		first[0] = 'z'
		second, err := store.Get(ctx, "k")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), second)
	})

	t.Run("delete removes the value", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, "k", []byte("v")))

		// Act
		require.NoError(t, store.Delete(ctx, "k"))
		value, err := store.Get(ctx, "k")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("canceled context is surfaced", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		// Act
		_, err := store.Get(canceled, "k")

		// Assert
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStore_SecureData(t *testing.T) {
	ctx := context.Background()

	container := &models.SecureDataContainer{
		ID:            "c1",
		EncryptedData: "payload",
		Algorithm:     "aes-256-gcm",
		Version:       "1.0",
	}

	t.Run("containers round trip as copies", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		require.NoError(t, store.SaveSecureData(ctx, "u:k", container))

		// Act
		got, err := store.GetSecureData(ctx, "u:k")
		require.NoError(t, err)
		got.EncryptedData = "mutated"
		again, err := store.GetSecureData(ctx, "u:k")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "payload", again.EncryptedData)
	})

	t.Run("absent containers return nil without error", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()

		// Act
		got, err := store.GetSecureData(ctx, "missing")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list filters by prefix", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		require.NoError(t, store.SaveSecureData(ctx, "alice:diary", container))
		require.NoError(t, store.SaveSecureData(ctx, "alice:settings", container))
		require.NoError(t, store.SaveSecureData(ctx, "bob:diary", container))

		// Act
		keys, err := store.ListSecureKeys(ctx, "alice:")

		// Assert
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice:diary", "alice:settings"}, keys)
	})
}

func TestMemoryStore_Preferences(t *testing.T) {
	ctx := context.Background()

	t.Run("preferences round trip", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		prefs := models.NewDefaultPreferences("user-1", []string{"profanity"})

		// Act
		require.NoError(t, store.SaveUserPreferences(ctx, prefs))
		got, err := store.GetUserPreferences(ctx, "user-1")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, prefs.UserID, got.UserID)
		assert.Equal(t, prefs.EnabledFilters, got.EnabledFilters)
	})

	t.Run("stored preferences are isolated from later mutation", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		prefs := models.NewDefaultPreferences("user-1", []string{"profanity"})
		require.NoError(t, store.SaveUserPreferences(ctx, prefs))

		// Act
		prefs.ContentRating = models.RatingRestricted
		got, err := store.GetUserPreferences(ctx, "user-1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.RatingGeneral, got.ContentRating)
	})

	t.Run("unknown users return nil without error", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()

		// Act
		got, err := store.GetUserPreferences(ctx, "ghost")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete removes the preferences", func(t *testing.T) {
		// Arrange
		store := NewMemoryStore()
		require.NoError(t, store.SaveUserPreferences(ctx, models.NewDefaultPreferences("user-1", nil)))

		// Act
		require.NoError(t, store.DeleteUserPreferences(ctx, "user-1"))
		got, err := store.GetUserPreferences(ctx, "user-1")

		// Assert
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
