package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanachat/contentguard/internal/config"
)

func newTestJWTService(expiry time.Duration) *JWTService {
	return NewJWTService(&config.JWTSettings{
		Secret: "test-signing-secret",
		Expiry: expiry,
		Issuer: "contentguard-test",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	t.Run("issued tokens validate round trip", func(t *testing.T) {
		// Arrange
		svc := newTestJWTService(time.Hour)

		// Act
		token, jwtID, err := svc.GenerateToken("backup-service", RolePrivacy)
		require.NoError(t, err)
		claims, err := svc.ValidateToken(token)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "backup-service", claims.Subject)
		assert.Equal(t, RolePrivacy, claims.Role)
		assert.Equal(t, "contentguard-test", claims.Issuer)
		assert.Equal(t, jwtID, claims.ID)
		assert.NotEmpty(t, jwtID)
	})

	t.Run("each token gets a unique ID", func(t *testing.T) {
		// Arrange
		svc := newTestJWTService(time.Hour)

		// Act
		_, first, err := svc.GenerateToken("svc", RoleAudit)
		require.NoError(t, err)
		_, second, err := svc.GenerateToken("svc", RoleAudit)
		require.NoError(t, err)

		// Assert
		assert.NotEqual(t, first, second)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("expired tokens are rejected", func(t *testing.T) {
		// Arrange
		svc := newTestJWTService(-time.Minute)
		token, _, err := svc.GenerateToken("svc", RolePrivacy)
		require.NoError(t, err)

		// Act
		_, err = svc.ValidateToken(token)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("tokens signed with another secret are rejected", func(t *testing.T) {
		// Arrange
		other := NewJWTService(&config.JWTSettings{
			Secret: "different-secret",
			Expiry: time.Hour,
			Issuer: "contentguard-test",
		})
		token, _, err := other.GenerateToken("svc", RolePrivacy)
		require.NoError(t, err)
		svc := newTestJWTService(time.Hour)

		// Act
		_, err = svc.ValidateToken(token)

		// Assert
		assert.Error(t, err)
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		// Arrange
		svc := newTestJWTService(time.Hour)

		// Act
		_, err := svc.ValidateToken("not.a.token")

		// Assert
		assert.Error(t, err)
	})
}

func TestServiceClaims_HasRole(t *testing.T) {
	t.Run("exact role matches", func(t *testing.T) {
		claims := &ServiceClaims{Role: RolePrivacy}
		assert.True(t, claims.HasRole(RolePrivacy))
		assert.False(t, claims.HasRole(RoleAudit))
	})

	t.Run("admin implies every role", func(t *testing.T) {
		claims := &ServiceClaims{Role: RoleAdmin}
		assert.True(t, claims.HasRole(RolePrivacy))
		assert.True(t, claims.HasRole(RoleAudit))
		assert.True(t, claims.HasRole(RoleAdmin))
	})
}
