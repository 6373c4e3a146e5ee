package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("sess-1", "user-1", "owner@shop.com", "owner", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestValidateRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := GenerateToken("sess-1", "user-1", "owner@shop.com", "owner", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	noSession, err := GenerateToken("", "user-1", "owner@shop.com", "owner", time.Now().Add(time.Hour))
	require.NoError(t, err)

	foreign := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &Claims{
		SessionID:        "sess-1",
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "someone-else"},
	})
	foreignToken, err := foreign.SignedString(GetSecretKey())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":       "not-a-token",
		"expired":       expired,
		"no session id": noSession,
		"wrong issuer":  foreignToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	valid, err := GenerateToken("sess-1", "user-1", "owner@shop.com", "owner", time.Now().Add(time.Hour))
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "rotated")
	_, err = ValidateToken(valid)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
