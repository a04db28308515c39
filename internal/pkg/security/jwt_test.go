package security

import (
	"Parchment/internal/api/config"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	prev := config.Cfg
	config.Cfg = &config.Config{JWT: config.JWTConfig{Secret: secret}}
	t.Cleanup(func() { config.Cfg = prev })
}

func TestGenerateAndValidate(t *testing.T) {
	withSecret(t, "s3cret")

	token, err := GenerateToken(42, []string{"reader"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, []string{"reader"}, claims.Roles)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	withSecret(t, "one")
	token, err := GenerateToken(1, nil)
	require.NoError(t, err)

	config.Cfg.JWT.Secret = "two"
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	withSecret(t, "")
	_, err := GenerateToken(1, nil)
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestExtractSignature(t *testing.T) {
	withSecret(t, "s3cret")
	token, err := GenerateToken(7, nil)
	require.NoError(t, err)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(token, "."+sig))

	_, err = ExtractSignature("not-a-token")
	assert.Error(t, err)
}
