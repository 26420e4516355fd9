package monitor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/guard"
	"github.com/eliteGoblin/focusd/monitors/internal/listener"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
	"github.com/eliteGoblin/focusd/monitors/internal/trigger"
)

// ClassKeyword selects the monitor class in Create's arguments.
const ClassKeyword = spec.Keyword("class")

// Manager creates monitors from specs and keeps the table of defined
// monitors. It is not safe for concurrent use.
type Manager struct {
	host      domain.Host
	logger    *zap.Logger
	classes   *Registry
	listeners *listener.Registry
	guards    *guard.Registry

	defined map[string]*Monitor
	order   []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger monitors derive theirs from.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClasses replaces the monitor class table.
func WithClasses(r *Registry) Option {
	return func(m *Manager) { m.classes = r }
}

// WithListeners replaces the listener class table.
func WithListeners(r *listener.Registry) Option {
	return func(m *Manager) { m.listeners = r }
}

// WithGuards replaces the guard class table.
func WithGuards(r *guard.Registry) Option {
	return func(m *Manager) { m.guards = r }
}

// NewManager creates a manager over host with the built-in classes.
func NewManager(host domain.Host, opts ...Option) *Manager {
	m := &Manager{
		host:      host,
		logger:    zap.NewNop(),
		classes:   NewClassRegistry(),
		listeners: listener.NewRegistry(),
		guards:    guard.NewRegistry(),
		defined:   make(map[string]*Monitor),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Classes returns the monitor class table.
func (mgr *Manager) Classes() *Registry { return mgr.classes }

// ListenerClasses returns the listener class table.
func (mgr *Manager) ListenerClasses() *listener.Registry { return mgr.listeners }

// GuardClasses returns the guard class table.
func (mgr *Manager) GuardClasses() *guard.Registry { return mgr.guards }

type monitorOptions struct {
	TriggerOn any `spec:"trigger-on"`
	Guards    any `spec:"guard-trigger"`
	OnTrigger any `spec:"on-trigger"`
}

// Create builds a monitor from keyword/value arguments. An optional
// (:class NAME) pair selects the class; it defaults to the base monitor
// class and must inherit from it.
func (mgr *Manager) Create(args ...any) (*Monitor, error) {
	return mgr.create("", args)
}

func (mgr *Manager) create(name string, raw []any) (*Monitor, error) {
	args, err := spec.Parse(raw, ClassKeyword)
	if err != nil {
		return nil, err
	}

	className := domain.ClassMonitor
	if v, ok := args.SpecialValue(ClassKeyword); ok {
		s, ok := spec.Symbol(v)
		if !ok {
			return nil, &domain.TypeMismatchError{Want: "class name", Got: v}
		}
		className = s
	}
	if !mgr.classes.Inherits(className, domain.ClassMonitor) {
		return nil, &domain.DoesNotInheritError{Class: className}
	}
	if len(args.Positional) > 0 {
		return nil, fmt.Errorf("%s: %w: got %d, accepts 0",
			className, domain.ErrTooManyPositional, len(args.Positional))
	}

	id := uuid.NewString()
	fields := []zap.Field{zap.String("monitor_id", id), zap.String("class", className)}
	if name != "" {
		fields = append(fields, zap.String("monitor", name))
	}

	m := &Monitor{
		id:     id,
		class:  className,
		name:   name,
		logger: mgr.logger.With(fields...),
	}

	for _, fn := range initChain(mgr.classes, className) {
		if err := fn(m); err != nil {
			return nil, fmt.Errorf("%s: init: %w", className, err)
		}
	}

	if err := mgr.setup(m, args.OptionMap()); err != nil {
		return nil, err
	}

	m.logger.Debug("monitor created", zap.Int("listeners", len(m.listeners)))
	return m, nil
}

// setup builds the monitor's guards and listeners and wires each listener
// without an on-trigger to relay into the monitor.
func (mgr *Manager) setup(m *Monitor, opts map[string]any) error {
	var o monitorOptions
	if err := spec.Decode(m.class, opts, &o); err != nil {
		return err
	}

	action, err := trigger.ToAction(o.OnTrigger)
	if err != nil {
		return fmt.Errorf("%s: %w", m.class, err)
	}
	if action != nil {
		m.OnTrigger(action)
	}

	guards, err := guard.Build(mgr.guards, m, guard.Env{Host: mgr.host, Logger: m.logger}, o.Guards)
	if err != nil {
		return fmt.Errorf("%s: %w", m.class, err)
	}
	m.SetGuards(guards)

	env := listener.Env{Host: mgr.host, Logger: m.logger, Guards: mgr.guards}
	listeners, err := listener.Build(mgr.listeners, m, env, o.TriggerOn)
	if err != nil {
		return fmt.Errorf("%s: %w", m.class, err)
	}
	m.triggerOn = listeners
	m.listeners = listeners

	for _, l := range m.listeners {
		l.DefaultAction(m.relay)
	}

	return nil
}

// Define creates a monitor and binds it to name. A monitor previously bound
// to name is disabled and replaced.
func (mgr *Manager) Define(name string, args ...any) (*Monitor, error) {
	if name == "" {
		return nil, fmt.Errorf("monitor name is required")
	}

	m, err := mgr.create(name, args)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}

	if old, ok := mgr.defined[name]; ok {
		if err := old.Disable(); err != nil {
			return nil, fmt.Errorf("define %s: replace: %w", name, err)
		}
	} else {
		mgr.order = append(mgr.order, name)
	}
	mgr.defined[name] = m

	mgr.logger.Info("monitor defined", zap.String("monitor", name), zap.String("class", m.class))
	return m, nil
}

// Remove disables the monitor bound to name and unbinds it.
// Removing an unbound name is a no-op.
func (mgr *Manager) Remove(name string) error {
	m, ok := mgr.defined[name]
	if !ok {
		return nil
	}
	if err := m.Disable(); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}

	delete(mgr.defined, name)
	for i, n := range mgr.order {
		if n == name {
			mgr.order = append(mgr.order[:i], mgr.order[i+1:]...)
			break
		}
	}

	mgr.logger.Info("monitor removed", zap.String("monitor", name))
	return nil
}

// Lookup returns the monitor bound to name.
func (mgr *Manager) Lookup(name string) (*Monitor, bool) {
	m, ok := mgr.defined[name]
	return m, ok
}

// Names returns the defined names in definition order.
func (mgr *Manager) Names() []string {
	return append([]string(nil), mgr.order...)
}

// List returns a snapshot of every defined monitor in definition order.
func (mgr *Manager) List() []domain.MonitorInfo {
	infos := make([]domain.MonitorInfo, 0, len(mgr.order))
	for _, name := range mgr.order {
		infos = append(infos, mgr.defined[name].Info())
	}
	return infos
}

// IsMonitor reports whether x is a monitor or a name bound to one.
func (mgr *Manager) IsMonitor(x any) bool {
	_, err := mgr.resolve(x)
	return err == nil
}

// Enable enables a monitor given as *Monitor or defined name.
func (mgr *Manager) Enable(x any) error {
	m, err := mgr.resolve(x)
	if err != nil {
		return err
	}
	return m.Enable()
}

// Disable disables a monitor given as *Monitor or defined name.
func (mgr *Manager) Disable(x any) error {
	m, err := mgr.resolve(x)
	if err != nil {
		return err
	}
	return m.Disable()
}

// DisableAll disables every defined monitor, collecting failures.
func (mgr *Manager) DisableAll() error {
	var errs error
	for _, name := range mgr.order {
		if err := mgr.defined[name].Disable(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs
}

func (mgr *Manager) resolve(x any) (*Monitor, error) {
	switch v := x.(type) {
	case *Monitor:
		if v != nil {
			return v, nil
		}
	case string:
		if m, ok := mgr.defined[v]; ok {
			return m, nil
		}
	}
	return nil, &domain.TypeMismatchError{Want: "monitor", Got: x}
}
