package fund

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured funds and serializes their evaluations.
type Registry struct {
	mu    sync.Mutex
	funds map[string]*HedgeFund
}

// NewRegistry creates a Registry from funds; a repeated name is an error.
func NewRegistry(funds ...*HedgeFund) (*Registry, error) {
	r := &Registry{funds: make(map[string]*HedgeFund, len(funds))}
	for _, f := range funds {
		if _, ok := r.funds[f.Name]; ok {
			return nil, fmt.Errorf("duplicate fund %q", f.Name)
		}
		r.funds[f.Name] = f
	}
	return r, nil
}

// Names returns the fund names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funds))
	for n := range r.funds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the fund called name.
func (r *Registry) Get(name string) (*HedgeFund, bool) {
	f, ok := r.funds[name]
	return f, ok
}

// Evaluate runs one fund. Only one evaluation runs at a time.
func (r *Registry) Evaluate(ctx context.Context, name string) (*HedgeFund, *Evaluation, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown fund %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, err := f.Evaluate(ctx)
	return f, eval, err
}
