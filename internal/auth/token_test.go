package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestIssue_TwoTokensSameClaim(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	first, err := m.Issue("same@example.com")
	require.NoError(t, err)
	second, err := m.Issue("same@example.com")
	require.NoError(t, err)

	firstClaims, err := m.Verify(first)
	require.NoError(t, err)
	secondClaims, err := m.Verify(second)
	require.NoError(t, err)

	assert.Equal(t, firstClaims.Email, secondClaims.Email)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue("user@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue("user@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}
