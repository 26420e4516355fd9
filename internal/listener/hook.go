package listener

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/guard"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
	"github.com/eliteGoblin/focusd/monitors/internal/trigger"
)

const (
	HookClass = "hook-listener"
	HookAlias = "hook"
)

// Hook listens on one named hook of an event source.
type Hook struct {
	trigger.CanEnable
	trigger.CanTrigger

	owner  trigger.Triggerable
	events domain.EventSource
	hook   string
	sub    *hookSubscriber
	logger *zap.Logger
}

// hookSubscriber is the value registered on the event source. It is created
// once per listener so Unsubscribe removes exactly what Subscribe added.
type hookSubscriber struct {
	listener *Hook
}

func (s *hookSubscriber) Notify(args ...any) error {
	_, err := s.listener.Trigger(args...)
	return err
}

// NewHook creates a disabled hook listener. hook is required.
func NewHook(owner trigger.Triggerable, events domain.EventSource, hook string, logger *zap.Logger) (*Hook, error) {
	if hook == "" {
		return nil, &domain.MissingRequiredOptionError{Class: HookClass, Fields: []string{"hook"}}
	}
	if events == nil {
		return nil, fmt.Errorf("%s: %w", HookClass, domain.ErrNoEventSource)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Hook{
		owner:  owner,
		events: events,
		hook:   hook,
		logger: logger.With(zap.String("hook", hook)),
	}
	l.sub = &hookSubscriber{listener: l}
	return l, nil
}

type hookOptions struct {
	Hook      string `spec:"hook"`
	Guards    any    `spec:"guard-trigger"`
	OnTrigger any    `spec:"on-trigger"`
}

// newHookFromSpec accepts (hook ... NAME) as well as (hook :hook NAME ...).
// A positional NAME ends the keyword scan, so it must come last.
func newHookFromSpec(owner trigger.Triggerable, env Env, args spec.Parsed) (Listener, error) {
	opts := args.OptionMap()
	if err := spec.Promote(HookClass, opts, args.Positional, "hook"); err != nil {
		return nil, err
	}

	var o hookOptions
	if err := spec.Decode(HookClass, opts, &o, "hook"); err != nil {
		return nil, err
	}

	l, err := NewHook(owner, env.Host.Events, o.Hook, env.Logger)
	if err != nil {
		return nil, err
	}

	action, err := trigger.ToAction(o.OnTrigger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", HookClass, err)
	}
	if action != nil {
		l.OnTrigger(action)
	}

	guards, err := guard.Build(env.Guards, l, env.GuardEnv(), o.Guards)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", HookClass, err)
	}
	l.SetGuards(guards)

	return l, nil
}

// Enable subscribes to the hook, then enables the guards.
func (l *Hook) Enable() error {
	return l.Transition(true, func() error {
		if err := l.events.Subscribe(l.hook, l.sub); err != nil {
			return fmt.Errorf("subscribe %s: %w", l.hook, err)
		}
		l.logger.Debug("listener subscribed")
		return nil
	}, l.EnableGuards)
}

// Disable unsubscribes from the hook, then disables the guards.
func (l *Hook) Disable() error {
	return l.Transition(false, func() error {
		if err := l.events.Unsubscribe(l.hook, l.sub); err != nil {
			return fmt.Errorf("unsubscribe %s: %w", l.hook, err)
		}
		l.logger.Debug("listener unsubscribed")
		return nil
	}, l.DisableGuards)
}

// Trigger runs the guarded-trigger protocol with the hook's arguments.
func (l *Hook) Trigger(args ...any) (bool, error) {
	fired, err := l.CanTrigger.Trigger(args...)
	if err != nil {
		l.logger.Warn("listener trigger failed", zap.Error(err))
		return fired, err
	}
	l.logger.Debug("listener notified", zap.Bool("fired", fired))
	return fired, nil
}

// Hook returns the event source identifier.
func (l *Hook) Hook() string {
	return l.hook
}

// Owner returns the monitor this listener notifies.
func (l *Hook) Owner() trigger.Triggerable {
	return l.owner
}

// Subscriber returns the value registered on the event source.
func (l *Hook) Subscriber() domain.Subscriber {
	return l.sub
}

// Ensure Hook implements Listener.
var _ Listener = (*Hook)(nil)
