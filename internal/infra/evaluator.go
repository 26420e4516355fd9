package infra

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Vars is an evaluator over named variables. The expression is the
// variable name; unset variables sample as nil.
type Vars struct {
	mu   sync.RWMutex
	vals map[string]any
}

// NewVars creates an empty variable store.
func NewVars() *Vars {
	return &Vars{vals: make(map[string]any)}
}

// Set binds name to v.
func (v *Vars) Set(name string, val any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vals[name] = val
}

// Unset removes name.
func (v *Vars) Unset(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.vals, name)
}

// Sample returns the value bound to the variable named by expr.
func (v *Vars) Sample(expr any) (any, error) {
	name, ok := expr.(string)
	if !ok {
		return nil, &domain.TypeMismatchError{Want: "variable name", Got: expr}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vals[name], nil
}

// FuncEvaluator samples expressions that are functions by calling them.
type FuncEvaluator struct{}

// Sample calls expr, which must be a func() any or func() (any, error).
func (FuncEvaluator) Sample(expr any) (any, error) {
	switch fn := expr.(type) {
	case func() any:
		return fn(), nil
	case func() (any, error):
		return fn()
	}
	return nil, &domain.TypeMismatchError{Want: "func() any", Got: expr}
}

// Mux dispatches string expressions of the form "scheme:rest" to the
// evaluator registered for scheme, passing rest. Other expressions go to
// the fallback evaluator.
type Mux struct {
	schemes  map[string]domain.Evaluator
	fallback domain.Evaluator
}

// NewMux creates a mux. fallback may be nil.
func NewMux(fallback domain.Evaluator) *Mux {
	return &Mux{
		schemes:  make(map[string]domain.Evaluator),
		fallback: fallback,
	}
}

// Handle registers eval for scheme.
func (m *Mux) Handle(scheme string, eval domain.Evaluator) {
	m.schemes[scheme] = eval
}

// Schemes returns the registered schemes, sorted.
func (m *Mux) Schemes() []string {
	out := make([]string, 0, len(m.schemes))
	for s := range m.schemes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Sample routes expr to the matching evaluator.
func (m *Mux) Sample(expr any) (any, error) {
	if s, ok := expr.(string); ok {
		if scheme, rest, found := strings.Cut(s, ":"); found {
			if eval, ok := m.schemes[scheme]; ok {
				return eval.Sample(rest)
			}
		}
	}
	if m.fallback == nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoEvaluator, expr)
	}
	return m.fallback.Sample(expr)
}

// Ensure the evaluators implement domain.Evaluator.
var (
	_ domain.Evaluator = (*Vars)(nil)
	_ domain.Evaluator = FuncEvaluator{}
	_ domain.Evaluator = (*Mux)(nil)
)
