package lifecycle

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTransitionsToInitialized(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, Uninitialized, m.State())

	err := m.Init(nil)
	require.NoError(t, err)
	assert.Equal(t, Initialized, m.State())
	assert.True(t, m.IsAvailable())
}

func TestInitRejectsRepeat(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Init(nil))

	err := m.Init(nil)
	require.Error(t, err)
	var te *TransitionError
	assert.ErrorAs(t, err, &te)
}

func TestInitFailureLeavesDestroyed(t *testing.T) {
	m := NewMachine()
	err := m.Init(func() error { return assertErr })
	require.Error(t, err)
	assert.Equal(t, Destroyed, m.State())
}

func TestActivate(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Init(nil))
	require.NoError(t, m.Activate())
	assert.Equal(t, Active, m.State())
	assert.True(t, m.IsAvailable())
}

func TestDestroyFromUninitializedIsImmediate(t *testing.T) {
	m := NewMachine()
	m.Destroy(nil)
	assert.Equal(t, Destroyed, m.State())
}

func TestDestroyIsIdempotent(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Init(nil))
	m.Destroy(nil)
	m.Destroy(nil)
	assert.Equal(t, Destroyed, m.State())
}

func TestDestroyWaitsForDrain(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Init(nil))

	release := make(chan struct{})
	drained := make(chan struct{})

	go func() {
		m.Destroy(func() {
			<-release
		})
		close(drained)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Destroying, m.State())

	select {
	case <-drained:
		t.Fatal("destroy completed before drain was released")
	default:
	}

	close(release)
	<-drained
	assert.Equal(t, Destroyed, m.State())
}

func TestDestroyBroadcastsToWaiters(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Init(nil))

	var wg sync.WaitGroup
	wg.Add(1)

	woken := make(chan State, 1)
	go func() {
		defer wg.Done()
		m.Lock()
		for m.StateLocked() == Initialized {
			m.Wait()
		}
		woken <- m.StateLocked()
		m.Unlock()
	}()

	time.Sleep(20 * time.Millisecond)
	m.Destroy(nil)
	wg.Wait()

	assert.Equal(t, Destroyed, <-woken)
}

var assertErr = errors.New("setup failed")
