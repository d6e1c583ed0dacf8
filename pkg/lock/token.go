package lock

import (
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// tokenCounter is the process-global, monotonically increasing source of
// token ids. It is the only global mutable state in this package, has no
// teardown, and lives for the duration of the host process - the identity
// contract of tokens must survive service destruction and recreation within
// the same process.
var tokenCounter atomic.Int64

var (
	processKeyOnce sync.Once
	processKeyVal  string
	hostKeyOnce    sync.Once
	hostKeyVal     string
)

func processKey() string {
	processKeyOnce.Do(func() {
		processKeyVal = fmt.Sprintf("pid%d", os.Getpid())
	})
	return processKeyVal
}

func hostKey() string {
	hostKeyOnce.Do(func() {
		hostKeyVal = deriveHostKey()
	})
	return hostKeyVal
}

// deriveHostKey picks the first non-loopback IPv4 interface address it can
// find and uses it to build a stable per-host identity. If none can be
// found (e.g. a fully offline sandbox), it falls back to the OS hostname.
func deriveHostKey() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "unknown-host"
}

// Token is the opaque receipt identifying one successful acquisition of a
// set of resource keys. It exists only between a successful Acquire
// returning it and the matching Release.
type Token struct {
	scope     Scope
	tokenID   int64
	timestamp time.Time
	processID string
	hostID    string
	tokenKey  string
}

// NewToken allocates a new Token with the given scope, pulling the next
// value from the process-wide atomic counter. Tokens created back-to-back
// in the same process are always distinguishable by TokenID alone.
func NewToken(scope Scope) *Token {
	id := tokenCounter.Add(1)
	ts := time.Now()
	pk := processKey()
	hk := hostKey()

	t := &Token{
		scope:     scope,
		tokenID:   id,
		timestamp: ts,
		processID: pk,
		hostID:    hk,
	}
	t.tokenKey = fmt.Sprintf("[%s:%d:%s]@%s@%s",
		scope, id, ts.Format(time.RFC3339Nano), pk, hk)
	return t
}

// Scope returns the token's scope.
func (t *Token) Scope() Scope { return t.scope }

// TokenID returns the token's unique, monotonically increasing id.
func (t *Token) TokenID() int64 { return t.tokenID }

// Timestamp returns the wall-clock instant the token was constructed.
func (t *Token) Timestamp() time.Time { return t.timestamp }

// ProcessKey returns the string derived from OS process identity.
func (t *Token) ProcessKey() string { return t.processID }

// HostKey returns the string derived from host network identity.
func (t *Token) HostKey() string { return t.hostID }

// TokenKey returns the formatted diagnostic key; String() returns the same
// value, satisfying toString(token) == token.tokenKey() from spec.md §6.
func (t *Token) TokenKey() string { return t.tokenKey }

// String implements fmt.Stringer.
func (t *Token) String() string { return t.tokenKey }

// Equal compares all six attributes: token id, scope, timestamp, process
// key, host key, and formatted key.
func (t *Token) Equal(other *Token) bool {
	if other == nil {
		return false
	}
	return t.tokenID == other.tokenID &&
		t.scope == other.scope &&
		t.timestamp.Equal(other.timestamp) &&
		t.processID == other.processID &&
		t.hostID == other.hostID &&
		t.tokenKey == other.tokenKey
}
