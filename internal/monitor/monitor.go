// Package monitor implements the top-level composite: a monitor owns the
// listeners built from its trigger-on spec, is itself guardable and
// triggerable, and cascades enable/disable down the tree.
package monitor

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/listener"
	"github.com/eliteGoblin/focusd/monitors/internal/trigger"
)

// Monitor is an enable-able, triggerable unit composed of listeners and
// optional guards.
type Monitor struct {
	trigger.CanEnable
	trigger.CanTrigger

	id        string
	class     string
	name      string
	triggerOn []listener.Listener
	listeners []listener.Listener
	logger    *zap.Logger
}

// Enable enables every listener in trigger-on order, then the monitor's own
// guards. If a listener fails, it and the listeners before it are disabled
// again.
func (m *Monitor) Enable() error {
	if m.Enabled() {
		return nil
	}
	if err := m.Transition(true, m.enableListeners, m.EnableGuards); err != nil {
		m.logger.Error("monitor enable failed", zap.Error(err))
		return err
	}
	m.logger.Info("monitor enabled", zap.Int("listeners", len(m.listeners)))
	return nil
}

// Disable disables every listener, then the monitor's own guards.
// Failures are collected; every child is visited.
func (m *Monitor) Disable() error {
	if !m.Enabled() {
		return nil
	}
	if err := m.Transition(false, m.disableListeners, m.DisableGuards); err != nil {
		m.logger.Error("monitor disable failed", zap.Error(err))
		return err
	}
	m.logger.Info("monitor disabled")
	return nil
}

func (m *Monitor) enableListeners() error {
	for i, l := range m.listeners {
		if err := l.Enable(); err != nil {
			err = fmt.Errorf("enable listener %d: %w", i, err)
			// A listener whose guards failed is already subscribed.
			for j := i; j >= 0; j-- {
				err = multierr.Append(err, m.listeners[j].Disable())
			}
			return err
		}
	}
	return nil
}

func (m *Monitor) disableListeners() error {
	var errs error
	for i, l := range m.listeners {
		if err := l.Disable(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("disable listener %d: %w", i, err))
		}
	}
	return errs
}

// Trigger runs the monitor's guard chain and, if it passes, its action.
func (m *Monitor) Trigger(args ...any) (bool, error) {
	fired, err := m.CanTrigger.Trigger(args...)
	switch {
	case err != nil:
		m.logger.Warn("monitor trigger failed", zap.Error(err))
	case fired:
		m.logger.Info("monitor triggered", zap.Int("args", len(args)))
	default:
		m.logger.Debug("monitor trigger blocked by guards")
	}
	return fired, err
}

// relay is the default action of listeners that have none: trigger the
// owning monitor with no extra arguments.
func (m *Monitor) relay(...any) error {
	_, err := m.Trigger()
	return err
}

// ID returns the instance identifier.
func (m *Monitor) ID() string { return m.id }

// Class returns the monitor class name.
func (m *Monitor) Class() string { return m.class }

// Name returns the name the monitor is defined under, if any.
func (m *Monitor) Name() string { return m.name }

// TriggerOn returns the listeners built from the trigger-on spec.
func (m *Monitor) TriggerOn() []listener.Listener {
	return append([]listener.Listener(nil), m.triggerOn...)
}

// Listeners returns the listeners the monitor enables.
func (m *Monitor) Listeners() []listener.Listener {
	return append([]listener.Listener(nil), m.listeners...)
}

// Logger returns the monitor's logger, scoped with its identity fields.
func (m *Monitor) Logger() *zap.Logger { return m.logger }

// Info returns a snapshot for status output.
func (m *Monitor) Info() domain.MonitorInfo {
	return domain.MonitorInfo{
		Name:      m.name,
		ID:        m.id,
		Class:     m.class,
		Enabled:   m.Enabled(),
		Listeners: len(m.listeners),
		Guards:    len(m.Guards()),
	}
}

// Ensure Monitor satisfies the capability interfaces.
var (
	_ domain.Enabler      = (*Monitor)(nil)
	_ trigger.Triggerable = (*Monitor)(nil)
)
