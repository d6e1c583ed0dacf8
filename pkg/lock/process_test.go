package lock

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *ProcessScopeLockingService {
	t.Helper()
	s := NewProcessScopeLockingService()
	require.NoError(t, s.Init(nil))
	t.Cleanup(s.Destroy)
	return s
}

func key(t *testing.T, resourceType string, components ...any) *ResourceKey {
	t.Helper()
	k, err := NewResourceKey(resourceType, components...)
	require.NoError(t, err)
	return k
}

// Scenario 1: single acquire/release.
func TestAcquireReleaseSingle(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 100)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, Process, tok.Scope())

	n, err := s.Release(tok)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tok2, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok2)
	_, err = s.Release(tok2)
	require.NoError(t, err)
}

// Scenario 2: non-blocking contention.
func TestAcquireNonBlockingContention(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 100)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)

	again, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	assert.Nil(t, again)

	_, err = s.Release(tok)
	require.NoError(t, err)

	third, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, third)

	_, err = s.Release(third)
	require.NoError(t, err)
}

// Scenario 3: bounded wait timeout.
func TestAcquireBoundedWaitTimeout(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 100)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)

	start := time.Now()
	again, err := s.Acquire(context.Background(), []*ResourceKey{k}, Wait(200*time.Millisecond))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Nil(t, again)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.LessOrEqual(t, elapsed, 750*time.Millisecond)

	_, err = s.Release(tok)
	require.NoError(t, err)
}

// Scenario 4: overlap without deadlock.
func TestAcquireOverlapWithoutDeadlock(t *testing.T) {
	s := newService(t)
	a := key(t, "ENTITY", "AAA")
	b := key(t, "ENTITY", "BBB")
	c := key(t, "ENTITY", "CCC")

	var wg sync.WaitGroup
	successes := make([]int, 2)

	run := func(idx int, keys []*ResourceKey) {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			tok, err := s.Acquire(context.Background(), keys, Wait(time.Second))
			assert.NoError(t, err)
			if tok != nil {
				successes[idx]++
				time.Sleep(time.Millisecond)
				_, _ = s.Release(tok)
			}
		}
	}

	wg.Add(2)
	go run(0, []*ResourceKey{a, b})
	go run(1, []*ResourceKey{b, c})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("threads did not complete within 10s - possible deadlock")
	}

	assert.Greater(t, successes[0], 0)
	assert.Greater(t, successes[1], 0)
}

// Scenario 5: interruption via context cancellation.
func TestAcquireContextCancellation(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 100)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan *Token, 1)
	go func() {
		r, err := s.Acquire(ctx, []*ResourceKey{k}, Indefinite)
		assert.NoError(t, err)
		result <- r
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case r := <-result:
		assert.Nil(t, r)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled acquire did not return")
	}

	_, err = s.Release(tok)
	require.NoError(t, err)

	// No holder should remain: a fresh acquire succeeds immediately.
	fresh, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	_, _ = s.Release(fresh)
}

// Scenario 6: destroy drains.
func TestDestroyDrains(t *testing.T) {
	s := NewProcessScopeLockingService()
	require.NoError(t, s.Init(nil))
	k := key(t, "ENTITY", 100)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)

	destroyed := make(chan struct{})
	go func() {
		s.Destroy()
		close(destroyed)
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-destroyed:
		t.Fatal("destroy completed before release")
	default:
	}
	assert.Equal(t, lifecycle.Destroying, s.State())

	_, err = s.Release(tok)
	require.NoError(t, err)

	select {
	case <-destroyed:
	case <-time.After(2 * time.Second):
		t.Fatal("destroy did not complete after release")
	}
	assert.Equal(t, lifecycle.Destroyed, s.State())
}

func TestAcquireRejectsNilKeys(t *testing.T) {
	s := newService(t)
	_, err := s.Acquire(context.Background(), nil, NonBlocking)
	require.Error(t, err)
	assert.True(t, IsKind(err, NullPointer))
}

func TestAcquireRejectsEmptyKeys(t *testing.T) {
	s := newService(t)
	_, err := s.Acquire(context.Background(), []*ResourceKey{}, NonBlocking)
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))
}

func TestAcquireRejectsNilElement(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 1)
	_, err := s.Acquire(context.Background(), []*ResourceKey{k, nil}, NonBlocking)
	require.Error(t, err)
	assert.True(t, IsKind(err, NullPointer))
}

func TestInitRejectsRepeat(t *testing.T) {
	s := newService(t)
	err := s.Init(nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, IllegalState))
}

func TestAcquireRejectsAfterDestroy(t *testing.T) {
	s := NewProcessScopeLockingService()
	require.NoError(t, s.Init(nil))
	s.Destroy()

	k := key(t, "ENTITY", 1)
	_, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.Error(t, err)
	assert.True(t, IsKind(err, IllegalState))
}

func TestReleaseRejectsNilToken(t *testing.T) {
	s := newService(t)
	_, err := s.Release(nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, NullPointer))
}

func TestReleaseRejectsForeignToken(t *testing.T) {
	s := newService(t)
	foreign := NewToken(Process)
	_, err := s.Release(foreign)
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))
}

func TestReleaseAllowedWhileDestroying(t *testing.T) {
	s := NewProcessScopeLockingService()
	require.NoError(t, s.Init(nil))
	k := key(t, "ENTITY", 1)
	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)

	destroyed := make(chan struct{})
	go func() {
		s.Destroy()
		close(destroyed)
	}()

	time.Sleep(30 * time.Millisecond)
	n, err := s.Release(tok)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	<-destroyed
}

func TestDuplicateKeysCollapseToOne(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", 1)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{k, k, k}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, tok)

	n, err := s.Release(tok)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAllOrNothingOccupancy(t *testing.T) {
	s := newService(t)
	a := key(t, "ENTITY", "A")
	b := key(t, "ENTITY", "B")

	held, err := s.Acquire(context.Background(), []*ResourceKey{b}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, held)

	tok, err := s.Acquire(context.Background(), []*ResourceKey{a, b}, NonBlocking)
	require.NoError(t, err)
	assert.Nil(t, tok)

	// a must still be free since the acquire above failed entirely.
	onlyA, err := s.Acquire(context.Background(), []*ResourceKey{a}, NonBlocking)
	require.NoError(t, err)
	require.NotNil(t, onlyA)
	_, _ = s.Release(onlyA)
	_, _ = s.Release(held)
}

func TestDumpLocksContainsHeldKeys(t *testing.T) {
	s := newService(t)
	k := key(t, "ENTITY", "100")
	tok, err := s.Acquire(context.Background(), []*ResourceKey{k}, NonBlocking)
	require.NoError(t, err)

	var buf strings.Builder
	s.DumpLocks(&buf)
	out := buf.String()

	assert.Contains(t, out, "***")
	assert.Contains(t, out, "ENTITY")
	assert.Contains(t, out, "100")

	_, _ = s.Release(tok)

	var empty strings.Builder
	s.DumpLocks(&empty)
	assert.Contains(t, empty.String(), "***")
}
