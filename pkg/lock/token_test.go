package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenUniqueIDs(t *testing.T) {
	a := NewToken(Process)
	b := NewToken(Process)
	assert.NotEqual(t, a.TokenID(), b.TokenID())
	assert.False(t, a.Equal(b))
}

func TestTokenStringMatchesTokenKey(t *testing.T) {
	tok := NewToken(Process)
	assert.Equal(t, tok.TokenKey(), tok.String())
	assert.Contains(t, tok.TokenKey(), "@")
	assert.Contains(t, tok.TokenKey(), "[")
	assert.Contains(t, tok.TokenKey(), "]")
	assert.Contains(t, tok.TokenKey(), Process.String())
}

func TestTokenHostKeyStableWithinProcess(t *testing.T) {
	a := NewToken(Process)
	b := NewToken(Process)
	assert.Equal(t, a.HostKey(), b.HostKey())
	assert.Equal(t, a.ProcessKey(), b.ProcessKey())
}

func TestTokenEqualComparesAllFields(t *testing.T) {
	tok := NewToken(Process)
	clone := &Token{
		scope:     tok.scope,
		tokenID:   tok.tokenID,
		timestamp: tok.timestamp,
		processID: tok.processID,
		hostID:    tok.hostID,
		tokenKey:  tok.tokenKey,
	}
	assert.True(t, tok.Equal(clone))

	clone.tokenID++
	assert.False(t, tok.Equal(clone))
}
