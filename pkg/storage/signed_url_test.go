package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("7f0c2a9e-1d7b-4a53-9a51-3c2f7b0e4d11", "matriculas_7f0c_20240101.csv")
	require.NoError(t, err)
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "+")

	got, err := signer.Verify(token, false)
	require.NoError(t, err)
	assert.Equal(t, "7f0c2a9e-1d7b-4a53-9a51-3c2f7b0e4d11", got.ExportID)
	assert.Equal(t, "matriculas_7f0c_20240101.csv", got.Path)
	assert.True(t, expiresAt.Equal(got.ExpiresAt))
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("exp-1", "listing.pdf")
	require.NoError(t, err)

	cases := map[string]string{
		"other export": strings.Replace(token, "exp-1", "exp-2", 1),
		"no signature": token[:strings.LastIndexByte(token, '.')],
		"empty":        "",
		"garbage":      "garbage",
	}
	for name, tampered := range cases {
		_, err := signer.Verify(tampered, false)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}

	_, err = NewSignedURLSigner("other-secret", time.Hour).Verify(token, false)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return now }

	token, _, err := signer.Generate("exp-1", "listing.csv")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = signer.Verify(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	got, err := signer.Verify(token, true)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", got.ExportID)
	assert.Equal(t, "listing.csv", got.Path)
}

func TestSignedURLSignerRequiresInputs(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Hour).Generate("exp-1", "a.csv")
	assert.Error(t, err)

	_, _, err = NewSignedURLSigner("secret", time.Hour).Generate("exp.1", "a.csv")
	assert.Error(t, err)
}
