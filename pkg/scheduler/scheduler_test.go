package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLockService(t *testing.T) lock.Service {
	t.Helper()
	svc := lock.NewProcessScopeLockingService()
	require.NoError(t, svc.Init(nil))
	t.Cleanup(svc.Destroy)
	return svc
}

func TestStartActivatesScheduler(t *testing.T) {
	s := New(newLockService(t), 1)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, lifecycle.Active, s.State())
}

func TestSubmitRunsHandlerWithLockHeld(t *testing.T) {
	locksvc := newLockService(t)
	s := New(locksvc, 1)
	require.NoError(t, s.Start())
	defer s.Stop()

	key := NewResourceKeyOrPanic("entity", "e-1")
	done := make(chan struct{})
	var ran int32

	err := s.Submit(&WorkItem{
		ID:   "w1",
		Keys: []*lock.ResourceKey{key},
		Wait: lock.Indefinite,
		Run: func(ctx context.Context) error {
			atomic.StoreInt32(&ran, 1)
			close(done)
			return nil
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("work item handler never ran")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestConflictingWorkItemsSerialize(t *testing.T) {
	locksvc := newLockService(t)
	s := New(locksvc, 2)
	require.NoError(t, s.Start())
	defer s.Stop()

	key := NewResourceKeyOrPanic("entity", "shared")
	var active int32
	var sawOverlap int32
	order := make(chan struct{}, 2)

	handler := func(ctx context.Context) error {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.StoreInt32(&sawOverlap, 1)
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		order <- struct{}{}
		return nil
	}

	require.NoError(t, s.Submit(&WorkItem{ID: "a", Keys: []*lock.ResourceKey{key}, Wait: lock.Indefinite, Run: handler}))
	require.NoError(t, s.Submit(&WorkItem{ID: "b", Keys: []*lock.ResourceKey{key}, Wait: lock.Indefinite, Run: handler}))

	for i := 0; i < 2; i++ {
		select {
		case <-order:
		case <-time.After(2 * time.Second):
			t.Fatal("work items never completed")
		}
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&sawOverlap))
}

func TestStopDrainsInFlightWork(t *testing.T) {
	locksvc := newLockService(t)
	s := New(locksvc, 1)
	require.NoError(t, s.Start())

	key := NewResourceKeyOrPanic("entity", "e-drain")
	started := make(chan struct{})
	var finished int32

	require.NoError(t, s.Submit(&WorkItem{
		ID:   "slow",
		Keys: []*lock.ResourceKey{key},
		Wait: lock.Indefinite,
		Run: func(ctx context.Context) error {
			close(started)
			time.Sleep(30 * time.Millisecond)
			atomic.StoreInt32(&finished, 1)
			return nil
		},
	}))

	<-started
	s.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	assert.Equal(t, lifecycle.Destroyed, s.State())
}

func TestSubmitAfterStopIsRejected(t *testing.T) {
	s := New(newLockService(t), 1)
	require.NoError(t, s.Start())
	s.Stop()

	err := s.Submit(&WorkItem{
		ID:   "too-late",
		Keys: []*lock.ResourceKey{NewResourceKeyOrPanic("entity", "e-2")},
		Wait: lock.NonBlocking,
		Run:  func(ctx context.Context) error { return nil },
	})
	assert.Error(t, err)
}
