// Package auth provides JWT issuance and validation for the privileged
// privacy and audit endpoints.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/hanachat/contentguard/internal/config"
	"github.com/hanachat/contentguard/internal/utils"
)

// JWT errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// Known roles carried in service tokens. The privacy role may run data
// exports and deletions; the audit role may query the audit log.
const (
	RolePrivacy = "privacy"
	RoleAudit   = "audit"
	RoleAdmin   = "admin"
)

// ServiceClaims represents the claims in a service token.
type ServiceClaims struct {
	Subject string `json:"sub_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims grant the given role. The admin
// role implies every other role.
func (c *ServiceClaims) HasRole(role string) bool {
	return c.Role == role || c.Role == RoleAdmin
}

// JWTService provides service token generation and validation.
type JWTService struct {
	config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance.
func NewJWTService(cfg *config.JWTSettings) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// GenerateToken issues a signed service token carrying the given role.
//
// Parameters:
//   - subject: the calling service or operator identity
//   - role: the granted role
//
// Returns:
//   - string: the signed token
//   - string: the token's unique ID
//   - error: an error if signing failed
func (s *JWTService) GenerateToken(subject, role string) (string, string, error) {
	jwtID := uuid.NewString()

	now := time.Now()
	claims := ServiceClaims{
		Subject: subject,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", utils.NewInternalServerError(err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a service token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewUnauthorizedError("Token has expired")
		}
		return nil, utils.NewUnauthorizedError("Invalid token")
	}

	if !token.Valid {
		return nil, utils.NewUnauthorizedError("Invalid token")
	}

	claims, ok := token.Claims.(*ServiceClaims)
	if !ok {
		return nil, utils.NewUnauthorizedError("Invalid token")
	}

	return claims, nil
}
