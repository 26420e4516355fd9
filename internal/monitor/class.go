package monitor

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
	"github.com/eliteGoblin/focusd/monitors/internal/spec"
)

// LoggedClass logs every trigger unless the spec gives an on-trigger.
const LoggedClass = "logged-monitor"

// Init customizes a new monitor before setup. Inits run from the base class
// down to the instantiated class.
type Init func(m *Monitor) error

// Registry is the monitor class table.
type Registry = spec.Registry[Init]

// NewClassRegistry creates a registry holding the base monitor class and the
// built-in subclasses.
func NewClassRegistry() *Registry {
	r := spec.NewRegistry[Init]()
	r.MustRegister(spec.Class[Init]{Name: domain.ClassMonitor})
	r.MustRegister(spec.Class[Init]{
		Name:   LoggedClass,
		Parent: domain.ClassMonitor,
		New:    initLogged,
	})
	return r
}

func initLogged(m *Monitor) error {
	m.DefaultAction(func(args ...any) error {
		m.logger.Info("monitor fired", zap.Any("args", args))
		return nil
	})
	return nil
}

// initChain returns the Inits of name and its ancestors, base first.
func initChain(r *Registry, name string) []Init {
	var chain []Init
	for name != "" {
		c, ok := r.Lookup(name)
		if !ok {
			break
		}
		if c.New != nil {
			chain = append([]Init{c.New}, chain...)
		}
		name = c.Parent
	}
	return chain
}
