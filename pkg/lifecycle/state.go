// Package lifecycle provides the one-way service state machine shared by
// every long-lived service in this repository: the locking core, the
// scheduler, and the consumer. Each owns its own Machine instance, but all
// three apply the identical discipline spec.md describes for the locking
// service: state is observed under a mutex, and every transition broadcasts
// a condition to any goroutine waiting on that mutex.
package lifecycle

import "sync"

// State is a point in the one-way lifecycle
// UNINITIALIZED -> INITIALIZING -> INITIALIZED -> ACTIVE -> DESTROYING -> DESTROYED.
// The scheduler and the consumer share this exact machine with the locking
// core; there are no per-service state names.
type State int

const (
	Uninitialized State = iota
	Initializing
	Initialized
	Active
	Destroying
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Initializing:
		return "INITIALIZING"
	case Initialized:
		return "INITIALIZED"
	case Active:
		return "ACTIVE"
	case Destroying:
		return "DESTROYING"
	case Destroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// Machine is a mutex-guarded state holder. Callers that need to guard their
// own bookkeeping (occupancy maps, pending-work queues, ...) with the same
// mutex the state transitions use should take the lock via Lock/Unlock and
// wait on state changes via Wait, exactly as the locking core does.
type Machine struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state State
}

// NewMachine returns a Machine starting in Uninitialized.
func NewMachine() *Machine {
	m := &Machine{state: Uninitialized}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Lock acquires the machine's mutex. Callers that need to guard additional
// state with the same lock (as ProcessScopeLockingService does for its
// occupancy table) call Lock/Unlock directly instead of going through the
// higher-level State/Init/Destroy helpers.
func (m *Machine) Lock() { m.mu.Lock() }

// Unlock releases the machine's mutex.
func (m *Machine) Unlock() { m.mu.Unlock() }

// Wait blocks the calling goroutine on the machine's condition variable.
// The caller must hold the lock; Wait releases it while blocked and
// reacquires it before returning, exactly like sync.Cond.Wait.
func (m *Machine) Wait() { m.cond.Wait() }

// Broadcast wakes every goroutine currently in Wait. The caller must hold
// the lock.
func (m *Machine) Broadcast() { m.cond.Broadcast() }

// StateLocked returns the current state; the caller must hold the lock.
func (m *Machine) StateLocked() State { return m.state }

// State returns the current state, taking the lock itself.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAvailable holds exactly in Initialized and Active, the two states in
// which the service accepts normal operations.
func (m *Machine) IsAvailable() bool {
	s := m.State()
	return s == Initialized || s == Active
}

// IsAvailableLocked is IsAvailable for a caller that already holds the
// lock (e.g. inside an Acquire wait loop).
func (m *Machine) IsAvailableLocked() bool {
	return m.state == Initialized || m.state == Active
}

// setLocked transitions to s and broadcasts. The caller must hold the lock.
func (m *Machine) setLocked(s State) {
	m.state = s
	m.cond.Broadcast()
}

// TransitionError is returned by Init when the machine is not in
// Uninitialized, and by Activate when it is not in Initialized.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return "lifecycle: cannot " + e.Op + " from state " + e.From.String()
}

// Init may be called only from Uninitialized. It transitions to
// Initializing, releases the lock while running work (work may do I/O),
// then transitions to Initialized on success or Destroyed on failure -
// a failed service is never left half-initialized and reusable.
func (m *Machine) Init(work func() error) error {
	m.mu.Lock()
	if m.state != Uninitialized {
		from := m.state
		m.mu.Unlock()
		return &TransitionError{From: from, Op: "init"}
	}
	m.setLocked(Initializing)
	m.mu.Unlock()

	var err error
	if work != nil {
		err = work()
	}

	m.mu.Lock()
	if err != nil {
		m.setLocked(Destroyed)
		m.mu.Unlock()
		return err
	}
	m.setLocked(Initialized)
	m.mu.Unlock()
	return nil
}

// Activate transitions Initialized -> Active. Services with no distinct
// active phase may skip calling it and treat Initialized as available,
// since IsAvailable already covers both.
func (m *Machine) Activate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Initialized {
		return &TransitionError{From: m.state, Op: "activate"}
	}
	m.setLocked(Active)
	return nil
}

// Destroy is idempotent. From Uninitialized it moves directly to
// Destroyed. From Initialized/Active it moves to Destroying, broadcasts
// (waking any goroutine blocked in Wait - e.g. an in-progress Acquire),
// then runs drain, then moves to Destroyed. From Destroying it waits for a
// concurrent Destroy to finish. drain may be nil.
func (m *Machine) Destroy(drain func()) {
	m.mu.Lock()
	switch m.state {
	case Destroyed:
		m.mu.Unlock()
		return
	case Uninitialized:
		m.setLocked(Destroyed)
		m.mu.Unlock()
		return
	case Destroying:
		for m.state != Destroyed {
			m.cond.Wait()
		}
		m.mu.Unlock()
		return
	default:
		m.setLocked(Destroying)
		m.mu.Unlock()
	}

	if drain != nil {
		drain()
	}

	m.mu.Lock()
	m.setLocked(Destroyed)
	m.mu.Unlock()
}
