// Package listener implements the listener family: observers of one external
// event source that run the guarded-trigger protocol when notified.
package listener

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/guard"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
	"github.com/eliteGoblin/focusd/monitors/internal/trigger"
)

// Listener observes an event source and relays into its owner by default.
type Listener interface {
	domain.Enabler
	trigger.Triggerable

	// Owner returns the monitor this listener notifies (non-owning).
	Owner() trigger.Triggerable

	// DefaultAction installs a if the spec gave no on-trigger.
	DefaultAction(a trigger.Action)

	// HasAction reports whether an on-trigger action is installed.
	HasAction() bool
}

// Env carries the collaborators a listener factory may use.
type Env struct {
	Host   domain.Host
	Logger *zap.Logger
	Guards *guard.Registry
}

// GuardEnv returns the environment for building this listener's guards.
func (e Env) GuardEnv() guard.Env {
	return guard.Env{Host: e.Host, Logger: e.Logger}
}

// Factory builds a listener owned by owner from parsed spec arguments.
type Factory func(owner trigger.Triggerable, env Env, args spec.Parsed) (Listener, error)

// Registry is the listener class table.
type Registry = spec.Registry[Factory]

// NewRegistry creates a registry with the base listener class and the
// built-in variants registered.
func NewRegistry() *Registry {
	r := spec.NewRegistry[Factory]()
	r.MustRegister(spec.Class[Factory]{Name: domain.ClassListener})
	r.MustRegister(spec.Class[Factory]{
		Name:   HookClass,
		Parent: domain.ClassListener,
		Alias:  HookAlias,
		New:    newHookFromSpec,
	})
	return r
}

// Build turns a trigger-on option into listeners owned by owner.
// Items that already are listeners are kept as they are.
func Build(r *Registry, owner trigger.Triggerable, env Env, raw any) ([]Listener, error) {
	items := spec.List(raw)
	listeners := make([]Listener, 0, len(items))

	for i, item := range items {
		if l, ok := item.(Listener); ok {
			listeners = append(listeners, l)
			continue
		}

		l, err := BuildOne(r, owner, env, item)
		if err != nil {
			return nil, fmt.Errorf("listener %d: %w", i, err)
		}
		listeners = append(listeners, l)
	}

	return listeners, nil
}

// BuildOne resolves the alias at the head of item and constructs the listener.
func BuildOne(r *Registry, owner trigger.Triggerable, env Env, item any) (Listener, error) {
	alias, rest, err := spec.Split(item)
	if err != nil {
		return nil, err
	}

	class, err := r.Resolve(domain.ClassListener, alias)
	if err != nil {
		return nil, err
	}
	if class.New == nil {
		return nil, fmt.Errorf("listener class %s has no constructor", class.Name)
	}

	args, err := spec.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", class.Name, err)
	}

	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	if env.Guards == nil {
		env.Guards = guard.NewRegistry()
	}
	return class.New(owner, env, args)
}
