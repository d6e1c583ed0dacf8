package health

import "github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"

// Reporter is anything that can report its current lifecycle state - every
// Service in this repository that embeds a *lifecycle.Machine satisfies
// this trivially via its own State accessor.
type Reporter interface {
	State() lifecycle.State
}

// Registry aggregates Reporters under a name for the /readyz handler.
type Registry struct {
	reporters map[string]Reporter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reporters: make(map[string]Reporter)}
}

// Register adds a Reporter under name. Calling Register twice with the
// same name replaces the previous entry.
func (r *Registry) Register(name string, reporter Reporter) {
	r.reporters[name] = reporter
}

// Ready reports whether every registered Reporter is in an available
// lifecycle state (Initialized or Active), and the per-component states
// for diagnostics.
func (r *Registry) Ready() (bool, map[string]lifecycle.State) {
	states := make(map[string]lifecycle.State, len(r.reporters))
	ready := true
	for name, reporter := range r.reporters {
		s := reporter.State()
		states[name] = s
		if s != lifecycle.Initialized && s != lifecycle.Active {
			ready = false
		}
	}
	return ready, states
}
