// Package guard implements the guard family: predicate gates that can block
// a trigger. Guards are built from specs through a class registry, the same
// way listeners are.
package guard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
)

// Env carries the collaborators a guard factory may use.
type Env struct {
	Host   domain.Host
	Logger *zap.Logger
}

// Factory builds a guard owned by owner from parsed spec arguments.
type Factory func(owner any, env Env, args spec.Parsed) (domain.Guard, error)

// Registry is the guard class table.
type Registry = spec.Registry[Factory]

// NewRegistry creates a registry with the base guard class and the built-in
// variants registered.
func NewRegistry() *Registry {
	r := spec.NewRegistry[Factory]()
	r.MustRegister(spec.Class[Factory]{Name: domain.ClassGuard})
	r.MustRegister(spec.Class[Factory]{
		Name:   ExprValueClass,
		Parent: domain.ClassGuard,
		Alias:  ExprValueAlias,
		New:    newExprValueFromSpec,
	})
	return r
}

// Build turns a guard-trigger option into guard instances owned by owner.
// Items that already are guards are kept as they are.
func Build(r *Registry, owner any, env Env, raw any) ([]domain.Guard, error) {
	items := spec.List(raw)
	guards := make([]domain.Guard, 0, len(items))

	for i, item := range items {
		if g, ok := item.(domain.Guard); ok {
			guards = append(guards, g)
			continue
		}

		g, err := BuildOne(r, owner, env, item)
		if err != nil {
			return nil, fmt.Errorf("guard %d: %w", i, err)
		}
		guards = append(guards, g)
	}

	return guards, nil
}

// BuildOne resolves the alias at the head of item and constructs the guard.
func BuildOne(r *Registry, owner any, env Env, item any) (domain.Guard, error) {
	alias, rest, err := spec.Split(item)
	if err != nil {
		return nil, err
	}

	class, err := r.Resolve(domain.ClassGuard, alias)
	if err != nil {
		return nil, err
	}
	if class.New == nil {
		return nil, fmt.Errorf("guard class %s has no constructor", class.Name)
	}

	args, err := spec.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", class.Name, err)
	}

	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	return class.New(owner, env, args)
}
