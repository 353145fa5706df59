// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "mona", 1)
	assert.NoError(t, err)

	claims, err := ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "mona", claims.Username)

	// A token signed under a different secret does not validate.
	SetJWTSecret("rotated-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 24)
	assert.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
