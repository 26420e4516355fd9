// Package trigger implements the two capabilities shared by monitors,
// listeners and guards (CanEnable, CanTrigger) and the guarded-trigger
// protocol built on them.
package trigger

import (
	"go.uber.org/multierr"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Action is an on-trigger callback.
type Action func(args ...any) error

// Triggerable runs the guarded-trigger protocol.
type Triggerable interface {
	// Trigger tests the guard chain and, if it passes, runs the action with args.
	// fired reports whether the chain passed.
	Trigger(args ...any) (fired bool, err error)

	// Guards returns the guard chain in evaluation order.
	Guards() []domain.Guard
}

// CanEnable holds the enabled flag. The zero value is disabled.
type CanEnable struct {
	enabled bool
}

// Enabled reports the current state.
func (c *CanEnable) Enabled() bool {
	return c.enabled
}

// Transition moves the flag to want. It is a no-op when the flag already
// equals want. Otherwise step runs first and the flag only changes if step
// succeeds; cascade runs after the flag changed. A failing cascade leaves the
// new state in place so the opposite transition can still tear down.
func (c *CanEnable) Transition(want bool, step, cascade func() error) error {
	if c.enabled == want {
		return nil
	}
	if step != nil {
		if err := step(); err != nil {
			return err
		}
	}
	c.enabled = want
	if cascade != nil {
		return cascade()
	}
	return nil
}

// CanTrigger owns a guard chain and an on-trigger action.
type CanTrigger struct {
	guards []domain.Guard
	action Action
}

// SetGuards installs the guard chain. Called once during setup.
func (c *CanTrigger) SetGuards(guards []domain.Guard) {
	c.guards = guards
}

// Guards returns a copy of the guard chain.
func (c *CanTrigger) Guards() []domain.Guard {
	return append([]domain.Guard(nil), c.guards...)
}

// OnTrigger sets the action.
func (c *CanTrigger) OnTrigger(a Action) {
	c.action = a
}

// DefaultAction sets the action only if none is set.
func (c *CanTrigger) DefaultAction(a Action) {
	if c.action == nil {
		c.action = a
	}
}

// HasAction reports whether an action is installed.
func (c *CanTrigger) HasAction() bool {
	return c.action != nil
}

// Trigger runs the guarded-trigger protocol: the action runs if and only if
// the guard chain passes. An empty chain passes.
func (c *CanTrigger) Trigger(args ...any) (bool, error) {
	ok, err := Test(c.guards)
	if err != nil || !ok {
		return false, err
	}
	if c.action != nil {
		if err := c.action(args...); err != nil {
			return true, err
		}
	}
	return true, nil
}

// EnableGuards enables the chain in order, stopping at the first failure.
func (c *CanTrigger) EnableGuards() error {
	for _, g := range c.guards {
		if err := g.Enable(); err != nil {
			return err
		}
	}
	return nil
}

// DisableGuards disables every guard in order and combines the failures.
func (c *CanTrigger) DisableGuards() error {
	var errs error
	for _, g := range c.guards {
		errs = multierr.Append(errs, g.Disable())
	}
	return errs
}

// Test evaluates a guard chain left to right and returns the conjunction.
// Every guard is tested even after one has failed, so each keeps its sample
// current. A guard error stops the chain.
func Test(guards []domain.Guard) (bool, error) {
	pass := true
	for _, g := range guards {
		ok, err := g.Test()
		if err != nil {
			return false, err
		}
		pass = pass && ok
	}
	return pass, nil
}

// ToAction accepts an Action, a func(args ...any) error, a func(args ...any)
// or a func(). nil yields a nil Action.
func ToAction(v any) (Action, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case Action:
		return a, nil
	case func(args ...any) error:
		return a, nil
	case func(args ...any):
		return func(args ...any) error { a(args...); return nil }, nil
	case func() error:
		return func(...any) error { return a() }, nil
	case func():
		return func(...any) error { a(); return nil }, nil
	}
	return nil, &domain.TypeMismatchError{Want: "on-trigger action", Got: v}
}
