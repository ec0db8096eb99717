package utils

import (
	"errors"
	"time"

	"github.com/ecommerce-project/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carried by both token kinds. Rol is a snapshot of the role name
// at issuance time: changing the user's role later does not alter tokens
// already in the wild.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Rol       string    `json:"rol"`
	IsStaff   bool      `json:"is_staff"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login hands back.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func generateToken(user *models.User, tokenType, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Rol:       user.RolNombre(),
		IsStaff:   user.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// GenerateTokenPair mints a short-lived access token and a longer-lived
// refresh token for the user. Each token carries its own jti so refresh
// tokens can be blacklisted individually.
func GenerateTokenPair(user *models.User, secretKey string, accessExpiry, refreshExpiry time.Duration) (*TokenPair, error) {
	access, err := generateToken(user, TokenTypeAccess, secretKey, accessExpiry)
	if err != nil {
		return nil, err
	}

	refresh, err := generateToken(user, TokenTypeRefresh, secretKey, refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccessFromClaims mints a fresh access token from a validated
// refresh token's claims. No database round trip: the role snapshot taken
// at login travels unchanged into the new access token.
func GenerateAccessFromClaims(refreshClaims *Claims, secretKey string, accessExpiry time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    refreshClaims.UserID,
		Username:  refreshClaims.Username,
		Rol:       refreshClaims.Rol,
		IsStaff:   refreshClaims.IsStaff,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ValidateToken parses and verifies a token of the expected kind.
// Signature, expiry and type mismatches all collapse to a coarse error:
// callers must not be able to distinguish why a token was rejected.
func ValidateToken(tokenString, secretKey, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

// RemainingLife reports how long the token stays naturally valid.
// Used to bound blacklist TTLs so revocation entries expire with the token.
func (c *Claims) RemainingLife() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
