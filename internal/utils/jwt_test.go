package utils

import (
	"testing"
	"time"

	"github.com/ecommerce-project/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testSecret        = "test-secret-key-for-jwt-testing"
	testWrongSecret   = "wrong-secret-key-for-jwt-testing"
	testAccessExpiry  = 15 * time.Minute
	testRefreshExpiry = 24 * time.Hour
)

// Helper function to create test user
func createTestUser(rolNombre string) *models.User {
	rolID := uint(1)
	return &models.User{
		ID:       uuid.New(),
		Username: "testuser",
		Email:    "test@example.com",
		Cedula:   "123456789",
		RolID:    &rolID,
		Rol:      &models.Rol{ID: rolID, Nombre: rolNombre},
	}
}

func TestGenerateTokenPair_Success(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)

	require.NoError(t, err, "GenerateTokenPair should not return error for valid input")
	assert.NotEmpty(t, pair.Access, "Access token should not be empty")
	assert.NotEmpty(t, pair.Refresh, "Refresh token should not be empty")
	assert.NotEqual(t, pair.Access, pair.Refresh, "Access and refresh tokens must differ")
}

func TestGenerateTokenPair_DistinctJTIs(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	accessClaims, err := ValidateToken(pair.Access, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	refreshClaims, err := ValidateToken(pair.Refresh, testSecret, TokenTypeRefresh)
	require.NoError(t, err)

	assert.NotEqual(t, accessClaims.ID, refreshClaims.ID, "Each token carries its own jti")
}

func TestValidateToken_RoleClaimSnapshot(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	// Changing the role after issuance must not affect the minted token.
	user.Rol.Nombre = "Administrador"

	claims, err := ValidateToken(pair.Access, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "Cliente", claims.Rol, "Role claim is a snapshot taken at issuance")
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	_, err = ValidateToken(pair.Access, testWrongSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "Token signed with another secret must be rejected")
}

func TestValidateToken_WrongType(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	// A refresh token must not pass where an access token is expected,
	// and vice versa.
	_, err = ValidateToken(pair.Refresh, testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken(pair.Access, testSecret, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, -1*time.Hour, testRefreshExpiry)
	require.NoError(t, err)

	_, err = ValidateToken(pair.Access, testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken, "Expired token must be rejected")
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("", testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAccessFromClaims_PreservesSnapshot(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	refreshClaims, err := ValidateToken(pair.Refresh, testSecret, TokenTypeRefresh)
	require.NoError(t, err)

	access, err := GenerateAccessFromClaims(refreshClaims, testSecret, testAccessExpiry)
	require.NoError(t, err)

	claims, err := ValidateToken(access, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "Cliente", claims.Rol, "Refreshed access token keeps the login-time role")
	assert.Equal(t, refreshClaims.UserID, claims.UserID)
	assert.NotEqual(t, refreshClaims.ID, claims.ID, "New access token gets a fresh jti")
}

func TestRemainingLife(t *testing.T) {
	user := createTestUser("Cliente")

	pair, err := GenerateTokenPair(user, testSecret, testAccessExpiry, testRefreshExpiry)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.Refresh, testSecret, TokenTypeRefresh)
	require.NoError(t, err)

	remaining := claims.RemainingLife()
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, testRefreshExpiry)
}
