package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Issue("alice@edutrack.io")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@edutrack.io", claims.Email)
	assert.Equal(t, "edutrack", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestIssue_TokensAreUnique(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	// Same address, same instant: the jti still tells the tokens apart
	first, err := manager.Issue("alice@edutrack.io")
	require.NoError(t, err)
	second, err := manager.Issue("alice@edutrack.io")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Issue("alice@edutrack.io")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Issue("alice@edutrack.io")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", time.Hour).ValidateToken("not.a.token")
	assert.Error(t, err)
}
