package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30, nil)

	token, exp, err := tm.Issue("alice", 7, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims := tm.Verify(token)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, int64(7), claims.UserID)
}

func TestTokenManager_ExpiredTokenIsNil(t *testing.T) {
	tm := NewTokenManager("test-secret", 30, nil)

	token, _, err := tm.Issue("alice", 7, time.Second)
	require.NoError(t, err)
	require.NotNil(t, tm.Verify(token))

	time.Sleep(1500 * time.Millisecond)
	assert.Nil(t, tm.Verify(token))
}

func TestTokenManager_TamperedTokenIsNil(t *testing.T) {
	tm := NewTokenManager("test-secret", 30, nil)

	token, _, err := tm.Issue("alice", 7, 0)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	assert.Nil(t, tm.Verify(strings.Join(parts, ".")))
}

func TestTokenManager_WrongSecretIsNil(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30, nil)
	verifier := NewTokenManager("secret-b", 30, nil)

	token, _, err := issuer.Issue("alice", 7, 0)
	require.NoError(t, err)
	assert.Nil(t, verifier.Verify(token))
}

func TestTokenManager_MalformedTokenIsNil(t *testing.T) {
	tm := NewTokenManager("test-secret", 30, nil)
	assert.Nil(t, tm.Verify("not.a.jwt"))
	assert.Nil(t, tm.Verify(""))
}

func TestTokenManager_TTLOverride(t *testing.T) {
	tm := NewTokenManager("test-secret", 30, nil)

	_, exp, err := tm.Issue("alice", 7, 2*time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)
}
