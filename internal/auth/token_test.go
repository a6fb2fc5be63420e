package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, expiresAt, err := tm.GenerateToken("noc-dashboard", ScopeReportsRead)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "noc-dashboard", claims.Subject)
	assert.Equal(t, []Scope{ScopeReportsRead}, claims.Scopes)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken("svc")
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := tm.GenerateToken("svc")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 1).ParseToken(token)
	assert.Error(t, err)
}

func TestHasScope(t *testing.T) {
	p := &Principal{Scopes: []Scope{ScopeEvaluate}}
	assert.True(t, p.HasScope(ScopeEvaluate))
	assert.False(t, p.HasScope(ScopeReportsRun))
}
