package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedTokenRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("payslip-secret", time.Hour)

	token, expiresAt, err := signer.Generate("job-1", "payslips/emp-1/2024-03-job-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	jobID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "payslips/emp-1/2024-03-job-1.pdf", path)
	assert.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedTokenExpiry(t *testing.T) {
	signer := NewSignedURLSigner("payslip-secret", 10*time.Millisecond)
	token, _, err := signer.Generate("job-1", "payslips/emp-1/slip.pdf")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	// Cleanup paths still resolve from expired tokens.
	jobID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "payslips/emp-1/slip.pdf", path)
}

func TestSignedTokenTamperDetection(t *testing.T) {
	signer := NewSignedURLSigner("payslip-secret", time.Hour)
	token, _, err := signer.Generate("job-1", "payslips/emp-1/slip.pdf")
	require.NoError(t, err)

	// Swap the job ID without re-signing.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)
	parts[0] = "job-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.Error(t, err)

	// A signer with a different secret rejects the token outright.
	other := NewSignedURLSigner("rotated-secret", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}
