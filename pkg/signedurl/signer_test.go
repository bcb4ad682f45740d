package signedurl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerGenerateAndParse(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("noc-certificate", "noc-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, parsedExpiry, err := signer.Parse("noc-certificate", token)
	require.NoError(t, err)
	assert.Equal(t, "noc-1", subject)
	assert.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Generate("noc-certificate", "noc-1")
	require.NoError(t, err)

	_, _, err = signer.Parse("magic-link", token)
	assert.ErrorIs(t, err, ErrSignature)

	_, _, err = NewSigner("other", time.Hour).Parse("noc-certificate", token)
	assert.ErrorIs(t, err, ErrSignature)

	_, _, err = signer.Parse("noc-certificate", "garbage")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSignerExpired(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return base }
	token, _, err := signer.Generate("noc-certificate", "noc-1")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, _, err = signer.Parse("noc-certificate", token)
	assert.ErrorIs(t, err, ErrExpired)
}
