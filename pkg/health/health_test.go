package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReporter struct{ state lifecycle.State }

func (f fakeReporter) State() lifecycle.State { return f.state }

func TestReadyWhenAllAvailable(t *testing.T) {
	r := NewRegistry()
	r.Register("lock", fakeReporter{lifecycle.Initialized})
	r.Register("scheduler", fakeReporter{lifecycle.Active})

	ready, states := r.Ready()
	assert.True(t, ready)
	assert.Len(t, states, 2)
}

func TestNotReadyWhenAnyUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register("lock", fakeReporter{lifecycle.Initialized})
	r.Register("consumer", fakeReporter{lifecycle.Destroying})

	ready, _ := r.Ready()
	assert.False(t, ready)
}

func TestHandlerReturns503WhenNotReady(t *testing.T) {
	r := NewRegistry()
	r.Register("lock", fakeReporter{lifecycle.Uninitialized})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerReturns200WhenReady(t *testing.T) {
	r := NewRegistry()
	r.Register("lock", fakeReporter{lifecycle.Active})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
