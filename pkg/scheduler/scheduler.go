package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/errors"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/log"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/metrics"
	"github.com/rs/zerolog"
)

// Handler does the work gated by a WorkItem's locks: projecting a change
// event into the data mart, applying a schema change, or any other
// operation that must run with its ResourceKeys exclusively held. A
// non-nil return marks the item failed; the scheduler does not retry.
type Handler func(ctx context.Context) error

// WorkItem is one unit of lock-gated work. Keys are sorted into the
// locking service's global acquisition order by Acquire itself - the
// scheduler never reorders them.
type WorkItem struct {
	ID   string
	Keys []*lock.ResourceKey
	Wait lock.Wait
	Run  Handler
}

// Scheduler dispatches WorkItems against a LockingService: it acquires a
// WorkItem's keys before running its Handler, and releases them once the
// Handler returns, whether it succeeded or failed. This is the locking
// core's sole caller-facing consumer in this repository - every other
// collaborator reaches the lock through a WorkItem.
type Scheduler struct {
	lockService lock.Service
	logger      zerolog.Logger
	machine     *lifecycle.Machine

	wg    sync.WaitGroup
	queue chan *WorkItem
}

// New returns a Scheduler that gates dispatch through lockService. queueSize
// bounds how many WorkItems may be pending Submit before it blocks.
func New(lockService lock.Service, queueSize int) *Scheduler {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Scheduler{
		lockService: lockService,
		logger:      log.WithComponent("scheduler"),
		machine:     lifecycle.NewMachine(),
		queue:       make(chan *WorkItem, queueSize),
	}
}

// State reports the scheduler's own lifecycle state, independent of the
// LockingService it dispatches against.
func (s *Scheduler) State() lifecycle.State {
	return s.machine.State()
}

// Start performs one-shot initialization and begins the dispatch loop. It
// fails if called more than once.
func (s *Scheduler) Start() error {
	err := s.machine.Init(func() error {
		return nil
	})
	if err != nil {
		return errors.NewSetupError("scheduler", err)
	}
	if activateErr := s.machine.Activate(); activateErr != nil {
		return errors.NewSetupError("scheduler", activateErr)
	}
	go s.run()
	return nil
}

// Submit enqueues item for dispatch. It blocks if the internal queue is
// full, and returns immediately if the scheduler is not available
// (Destroying or Destroyed).
func (s *Scheduler) Submit(item *WorkItem) error {
	if !s.machine.IsAvailable() {
		return errors.NewExecutionError("scheduler", "submit", nil)
	}
	s.queue <- item
	metrics.WorkItemsDispatched.Inc()
	return nil
}

// Stop stops accepting new work and blocks until every in-flight Handler
// has returned and its locks released, mirroring the locking core's own
// drain-on-destroy behavior one level up the stack.
func (s *Scheduler) Stop() {
	s.machine.Destroy(func() {
		close(s.queue)
		s.wg.Wait()
	})
}

func (s *Scheduler) run() {
	for item := range s.queue {
		s.wg.Add(1)
		go s.dispatch(item)
	}
}

func (s *Scheduler) dispatch(item *WorkItem) {
	defer s.wg.Done()

	schedTimer := metrics.NewTimer()
	lockTimer := metrics.NewTimer()
	ctx := context.Background()

	token, err := s.lockService.Acquire(ctx, item.Keys, item.Wait)
	schedTimer.ObserveDuration(metrics.SchedulingLatency)
	lockTimer.ObserveDuration(metrics.LockWaitDuration)
	if err != nil {
		metrics.WorkItemsFailed.Inc()
		s.logger.Error().Err(err).Str("work_item_id", item.ID).Msg("acquire failed")
		return
	}
	if token == nil {
		outcome := "timeout"
		switch {
		case ctx.Err() != nil:
			outcome = "cancelled"
		case item.Wait == lock.NonBlocking:
			outcome = "contended"
		}
		metrics.LockAcquireTotal.WithLabelValues(outcome).Inc()
		s.logger.Debug().Str("work_item_id", item.ID).Msg("acquire did not grant a token, dropping work item")
		return
	}
	metrics.LockAcquireTotal.WithLabelValues("granted").Inc()
	metrics.LocksHeld.Add(float64(len(item.Keys)))
	metrics.OutstandingTokens.Inc()

	tokenLogger := log.WithToken(token.TokenKey())
	tokenLogger.Debug().Str("work_item_id", item.ID).Msg("acquired")

	defer func() {
		metrics.LocksHeld.Sub(float64(len(item.Keys)))
		metrics.OutstandingTokens.Dec()
		if _, releaseErr := s.lockService.Release(token); releaseErr != nil {
			tokenLogger.Error().Err(releaseErr).Str("work_item_id", item.ID).Msg("release failed")
			return
		}
		tokenLogger.Debug().Str("work_item_id", item.ID).Msg("released")
	}()

	if runErr := item.Run(ctx); runErr != nil {
		metrics.WorkItemsFailed.Inc()
		s.logger.Error().Err(runErr).Str("work_item_id", item.ID).Msg("work item handler failed")
		return
	}

	s.logger.Debug().Str("work_item_id", item.ID).Msg("work item completed")
}

// NewResourceKeyOrPanic is a small convenience used by callers constructing
// WorkItems from already-validated identifiers (e.g. the consumer, which
// has already decoded and validated the change event before deriving
// keys). It panics on error, so it must never be called with
// caller-supplied, unvalidated input.
func NewResourceKeyOrPanic(resourceType string, components ...any) *lock.ResourceKey {
	key, err := lock.NewResourceKey(resourceType, components...)
	if err != nil {
		panic(fmt.Sprintf("scheduler: invalid resource key: %v", err))
	}
	return key
}
