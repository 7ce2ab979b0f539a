package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	maker := NewJWTToken(&Config{SigningKey: "test-signing-key"})

	token, err := maker.CreateToken(TokenObject{UserID: 42, Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	maker := NewJWTToken(&Config{SigningKey: "test-signing-key"})
	other := NewJWTToken(&Config{SigningKey: "different-key"})

	token, err := maker.CreateToken(TokenObject{UserID: 42, Role: "user"})
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestValidateConfigDefaults(t *testing.T) {
	config := &Config{
		ServerPort: 8080,
		DBUsername: "perkly",
		DBPassword: "secret",
	}
	require.NoError(t, validateConfig(config))

	assert.Equal(t, "@every 10m", config.WalletSweepSpec)
	assert.Equal(t, "@every 10m", config.RewardSweepSpec)
	assert.Equal(t, 100, config.WalletBatchSize)
	assert.Equal(t, 100, config.RewardBatchSize)
	assert.Equal(t, 1, config.WalletMaxIntervalHours)
	assert.Equal(t, 1, config.RewardMaxIntervalHours)
	assert.Equal(t, 3, config.MaxRetryAttempts)
}
