package health

import (
	"encoding/json"
	"net/http"
)

// Handler returns an http.Handler serving a JSON readiness report: 200 and
// {"ready":true,...} when every registered component is available, 503
// otherwise.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ready, states := r.Ready()

		components := make(map[string]string, len(states))
		for name, s := range states {
			components[name] = s.String()
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(struct {
			Ready      bool              `json:"ready"`
			Components map[string]string `json:"components"`
		}{Ready: ready, Components: components})
	})
}
