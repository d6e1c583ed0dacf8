package lock

import (
	"context"
	"io"
	"time"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
)

// Config holds the options recognized by a LockingService implementation.
// ProcessScopeLockingService recognizes no options beyond accepting a nil
// Config ("use defaults"); future scopes may extend this with host and
// cluster addressing, per spec.md §6.
type Config struct {
	// Scope names the scope the caller expects. It exists so a single
	// Config type can be threaded through future scope variants without a
	// breaking API change; the zero value (Process) is the only
	// implemented scope. ProcessScopeLockingService.Init does not read
	// it.
	Scope Scope
}

// Wait encodes the three acquisition modes spec.md §4.5 distinguishes.
// Use NonBlocking for a fail-fast attempt, Indefinite to wait until a key
// frees or the service is destroyed, or any positive duration for a bounded
// wait with that timeout.
type Wait time.Duration

const (
	// NonBlocking makes Acquire return immediately if any key is held.
	NonBlocking Wait = 0
	// Indefinite makes Acquire wait until success, cancellation, or
	// service destruction - never a timeout.
	Indefinite Wait = -1
)

// Service is the public contract every locking-service scope implements:
// init, acquire, release, destroy, and introspection. Variants are
// {process, localhost, cluster} (see Scope); only process is implemented
// in this package today. Implementers share the same lifecycle.Machine
// discipline and differ only in their waiting primitive and bookkeeping
// store, per spec.md §9.
type Service interface {
	// Init performs one-shot initialization. It fails with an
	// IllegalState *Error if called more than once.
	Init(cfg *Config) error

	// Acquire sorts keys into the single process-wide acquisition order,
	// then attempts to occupy every key atomically. A nil token with a
	// nil error means the wait elapsed, ctx was cancelled, or the
	// service was destroyed while waiting - none of these are errors.
	// A non-nil error is always a synchronous precondition failure that
	// left no state mutated.
	Acquire(ctx context.Context, keys []*ResourceKey, wait Wait) (*Token, error)

	// Release frees every key recorded under token and returns how many
	// were released (duplicate input keys at Acquire time collapse to
	// one, so this is the unique key count).
	Release(token *Token) (int, error)

	// Scope reports which Scope this implementation provides.
	Scope() Scope

	// State reports the current lifecycle state.
	State() lifecycle.State

	// Destroy prevents new acquisitions and blocks until every
	// outstanding token has been released, then transitions to the
	// terminal state. It is idempotent.
	Destroy()

	// DumpLocks writes a human-readable snapshot of current occupancy.
	// The format is not contractual beyond: a "***" separator frames the
	// output, every held key's resource type and components appear
	// verbatim, and output is produced even when no locks are held.
	DumpLocks(w io.Writer)
}
