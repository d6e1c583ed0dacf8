package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerDurationIncreasesMonotonically(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	d1 := timer.Duration()
	time.Sleep(5 * time.Millisecond)
	d2 := timer.Duration()

	assert.Greater(t, d2, d1)
	assert.GreaterOrEqual(t, d1, 5*time.Millisecond)
}

func TestTimerObserveDurationRecordsToHistogram(t *testing.T) {
	timer := NewTimer()
	time.Sleep(time.Millisecond)
	assert.NotPanics(t, func() {
		timer.ObserveDuration(LockWaitDuration)
	})
}
