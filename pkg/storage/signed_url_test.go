package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerIssueAndVerify(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Issue("job-1", "job-1/attendance-100042.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ticket, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "job-1", ticket.JobID)
	assert.Equal(t, "job-1/attendance-100042.csv", ticket.Path)
	assert.WithinDuration(t, expiresAt, ticket.ExpiresAt, time.Second)
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("secret", time.Nanosecond)
	token, _, err := signer.Issue("job-1", "job-1/attendance-100042.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 5)

	ticket, err := signer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	// the ticket still comes back so callers can log who tried
	assert.Equal(t, "job-1", ticket.JobID)
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Issue("job-1", "job-1/attendance-100042.csv")
	require.NoError(t, err)

	_, err = signer.Verify(token + "0")
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = signer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrMalformedToken)

	other := NewSigner("other-secret", time.Hour)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrBadSignature)
}
