package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("exp-123", "2025/03/cortex-dashboard-export-2025-03-20.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	exportID, relPath, parsedExp, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "exp-123", exportID)
	assert.Equal(t, "2025/03/cortex-dashboard-export-2025-03-20.csv", relPath)
	assert.Equal(t, expiresAt.Unix(), parsedExp.Unix())
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	token, _, err := signer.Generate("exp-123", "file.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)

	t.Run("altered export id", func(t *testing.T) {
		forged := strings.Join([]string{"exp-999", parts[1], parts[2], parts[3]}, ".")
		_, _, _, err := signer.Parse(forged, false)
		assert.Error(t, err)
	})

	t.Run("altered signature", func(t *testing.T) {
		forged := strings.Join([]string{parts[0], parts[1], parts[2], strings.Repeat("0", len(parts[3]))}, ".")
		_, _, _, err := signer.Parse(forged, false)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSignedURLSigner("other-secret", time.Hour)
		_, _, _, err := other.Parse(token, false)
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, _, _, err := signer.Parse("not-a-token", false)
		assert.Error(t, err)
	})
}

func TestSignedURLExpiry(t *testing.T) {
	// constructor clamps non-positive TTLs, so build an expired signer directly
	signer := &SignedURLSigner{secret: []byte("test-secret"), ttl: -time.Minute}
	token, _, err := signer.Generate("exp-123", "file.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	assert.ErrorContains(t, err, "expired")

	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "file.csv", relPath)
}

func TestSignedURLRequiresInputs(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	_, _, err := signer.Generate("", "file.csv")
	assert.Error(t, err)
	_, _, err = signer.Generate("exp-1", "")
	assert.Error(t, err)

	empty := NewSignedURLSigner("", time.Hour)
	_, _, err = empty.Generate("exp-1", "file.csv")
	assert.Error(t, err)
}
