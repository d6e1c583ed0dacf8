package lock

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
)

// heldEntry is one occupancy record: the resource key and the id of the
// token currently holding it.
type heldEntry struct {
	key     *ResourceKey
	tokenID int64
}

// ProcessScopeLockingService is the in-process LockingService
// implementation. A single, total acquisition order derived from
// ResourceKey.Compare - applied once per Acquire call, atomically, under
// the service mutex - is the sole mechanism preventing deadlock among
// overlapping acquisitions; see spec.md §9.
type ProcessScopeLockingService struct {
	machine *lifecycle.Machine

	// occupancy, byToken and outstanding are guarded by machine's mutex,
	// the same lock that guards state transitions, so a waiter woken by
	// a state change and a waiter woken by a key freeing are
	// indistinguishable at the condition-variable level - both simply
	// recheck.
	occupancy   map[string]*heldEntry // canonical key -> holder
	byToken     map[int64][]string    // token id -> canonical keys held
	outstanding int
}

// NewProcessScopeLockingService constructs an uninitialized service. Call
// Init before Acquire.
func NewProcessScopeLockingService() *ProcessScopeLockingService {
	return &ProcessScopeLockingService{
		machine:   lifecycle.NewMachine(),
		occupancy: make(map[string]*heldEntry),
		byToken:   make(map[int64][]string),
	}
}

// Init implements Service.
func (s *ProcessScopeLockingService) Init(cfg *Config) error {
	err := s.machine.Init(func() error { return nil })
	if err != nil {
		return newError(IllegalState, "init: %v", err)
	}
	_ = cfg // no recognized options today; nil and non-nil both mean defaults
	return nil
}

// Scope implements Service.
func (s *ProcessScopeLockingService) Scope() Scope { return Process }

// State implements Service.
func (s *ProcessScopeLockingService) State() lifecycle.State { return s.machine.State() }

// Acquire implements Service. See spec.md §4.5 for the full algorithm this
// mirrors step for step.
func (s *ProcessScopeLockingService) Acquire(ctx context.Context, keys []*ResourceKey, wait Wait) (*Token, error) {
	if keys == nil {
		return nil, newError(NullPointer, "keys must not be nil")
	}
	if len(keys) == 0 {
		return nil, newError(InvalidArgument, "keys must not be empty")
	}
	for _, k := range keys {
		if k == nil {
			return nil, newError(NullPointer, "keys must not contain a nil element")
		}
	}
	if !s.machine.IsAvailable() {
		return nil, newError(IllegalState, "service is not in an available state")
	}

	sorted := sortUniqueKeys(keys)

	var deadline time.Time
	hasDeadline := wait > 0
	if hasDeadline {
		deadline = time.Now().Add(time.Duration(wait))
	}

	// A context cancellation (the Go analogue of thread interruption)
	// can happen at any time, including while we are parked in
	// machine.Wait(). sync.Cond has no channel to select on, so a
	// watcher goroutine translates cancellation into a Broadcast.
	if ctx != nil && ctx.Done() != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				s.machine.Lock()
				s.machine.Broadcast()
				s.machine.Unlock()
			case <-stop:
			}
		}()
	}

	s.machine.Lock()
	defer s.machine.Unlock()

	for {
		if !s.machine.IsAvailableLocked() {
			// Destroy interlock: the service moved out of an
			// available state while we waited.
			return nil, nil
		}
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, nil
			default:
			}
		}

		if idx := s.firstOccupiedLocked(sorted); idx == -1 {
			tok := NewToken(Process)
			s.occupyLocked(tok, sorted)
			return tok, nil
		} else if wait == NonBlocking {
			return nil, nil
		} else if hasDeadline && !time.Now().Before(deadline) {
			return nil, nil
		}

		if hasDeadline {
			remaining := time.Until(deadline)
			if remaining < time.Millisecond {
				remaining = time.Millisecond
			}
			timer := time.AfterFunc(remaining, func() {
				s.machine.Lock()
				s.machine.Broadcast()
				s.machine.Unlock()
			})
			s.machine.Wait()
			timer.Stop()
		} else {
			s.machine.Wait()
		}
	}
}

// sortUniqueKeys copies keys into the canonical, process-wide acquisition
// order, collapsing duplicate keys (by canonical string) to one entry.
func sortUniqueKeys(keys []*ResourceKey) []*ResourceKey {
	seen := make(map[string]bool, len(keys))
	out := make([]*ResourceKey, 0, len(keys))
	for _, k := range keys {
		cs := k.CanonicalString()
		if seen[cs] {
			continue
		}
		seen[cs] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// firstOccupiedLocked returns the index of the first already-occupied key
// in sorted, or -1 if none are occupied. The caller must hold the lock.
func (s *ProcessScopeLockingService) firstOccupiedLocked(sorted []*ResourceKey) int {
	for i, k := range sorted {
		if _, held := s.occupancy[k.CanonicalString()]; held {
			return i
		}
	}
	return -1
}

// occupyLocked grants tok every key in sorted. All keys become occupied
// atomically; no partial occupancy is ever externally visible since this
// runs entirely under the lock. The caller must hold the lock.
func (s *ProcessScopeLockingService) occupyLocked(tok *Token, sorted []*ResourceKey) {
	canonical := make([]string, len(sorted))
	for i, k := range sorted {
		cs := k.CanonicalString()
		canonical[i] = cs
		s.occupancy[cs] = &heldEntry{key: k, tokenID: tok.TokenID()}
	}
	s.byToken[tok.TokenID()] = canonical
	s.outstanding++
}

// Release implements Service.
func (s *ProcessScopeLockingService) Release(token *Token) (int, error) {
	if token == nil {
		return 0, newError(NullPointer, "token must not be nil")
	}

	s.machine.Lock()
	defer s.machine.Unlock()

	state := s.machine.StateLocked()
	if state == lifecycle.Destroyed {
		return 0, newError(IllegalState, "service is destroyed")
	}
	if state == lifecycle.Uninitialized || state == lifecycle.Initializing {
		return 0, newError(IllegalState, "service is not initialized")
	}

	canonical, ok := s.byToken[token.TokenID()]
	if !ok {
		return 0, newError(InvalidArgument, "token %s is not held by this service", token)
	}

	for _, cs := range canonical {
		entry, present := s.occupancy[cs]
		if !present || entry.tokenID != token.TokenID() {
			panic(fmt.Sprintf("lock: occupancy invariant violated releasing %s for token %s", cs, token))
		}
		delete(s.occupancy, cs)
	}
	delete(s.byToken, token.TokenID())
	s.outstanding--
	s.machine.Broadcast()

	return len(canonical), nil
}

// Destroy implements Service.
func (s *ProcessScopeLockingService) Destroy() {
	s.machine.Destroy(func() {
		s.machine.Lock()
		for s.outstanding > 0 {
			s.machine.Wait()
		}
		s.machine.Unlock()
	})
}

// DumpLocks implements Service.
func (s *ProcessScopeLockingService) DumpLocks(w io.Writer) {
	s.machine.Lock()
	entries := make([]*heldEntry, 0, len(s.occupancy))
	for _, e := range s.occupancy {
		entries = append(entries, e)
	}
	s.machine.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].key.Compare(entries[j].key) < 0 })

	fmt.Fprintln(w, "*** lock occupancy dump ***")
	if len(entries) == 0 {
		fmt.Fprintln(w, "(no locks held)")
	}
	for _, e := range entries {
		fmt.Fprintf(w, "token=%d resourceType=%s components=%v key=%s\n",
			e.tokenID, e.key.ResourceType(), e.key.Components(), e.key.CanonicalString())
	}
	fmt.Fprintln(w, "***")
}
