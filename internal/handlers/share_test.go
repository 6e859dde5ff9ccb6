package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed, err := makeShareToken("HS-00023", 24)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := parseShareToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "HS-00023", claims.ProfileNo)
}

func TestShareTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed, err := makeShareToken("HS-00023", -1)
	require.NoError(t, err)

	_, err = parseShareToken(signed)
	assert.Error(t, err)
}

func TestShareTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	signed, err := makeShareToken("HS-00023", 24)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = parseShareToken(signed)
	assert.Error(t, err)
}

func TestShareTokenPrefersDedicatedSecret(t *testing.T) {
	t.Setenv("SHARE_TOKEN_SECRET", "share-secret")
	t.Setenv("JWT_SECRET", "session-secret")

	signed, err := makeShareToken("HS-00001", 1)
	require.NoError(t, err)

	claims, err := parseShareToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "HS-00001", claims.ProfileNo)
}

func TestShareTokenMissingSecret(t *testing.T) {
	t.Setenv("SHARE_TOKEN_SECRET", "")
	t.Setenv("JWT_SECRET", "")

	_, err := makeShareToken("HS-00001", 1)
	assert.Error(t, err)
}

func TestShareTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := parseShareToken("not.a.token")
	assert.Error(t, err)
}
