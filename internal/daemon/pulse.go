// Package daemon implements the pulse: the loop that drives named hooks on
// the bus while the CLI watches monitors.
package daemon

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	// StartupHook is published once when the pulse starts.
	StartupHook = "startup"

	// ShutdownHook is published once when the pulse stops.
	ShutdownHook = "shutdown"
)

// Publisher publishes a named hook. infra.Bus implements it.
type Publisher interface {
	Publish(id string, args ...any) error
}

// Config holds pulse configuration.
type Config struct {
	Hooks map[string]time.Duration // Hook name -> publish interval
}

// DefaultConfig returns default pulse configuration.
func DefaultConfig() Config {
	return Config{
		Hooks: map[string]time.Duration{
			"tick": 5 * time.Second,
		},
	}
}

// Validate checks every interval is positive.
func (c Config) Validate() error {
	for hook, every := range c.Hooks {
		if hook == "" {
			return fmt.Errorf("pulse: empty hook name")
		}
		if every <= 0 {
			return fmt.Errorf("pulse: hook %s: interval must be positive, got %s", hook, every)
		}
	}
	return nil
}

// Pulse publishes hooks on tickers. All publishing happens on the goroutine
// that calls Run, so subscribers never run concurrently.
type Pulse struct {
	config Config
	bus    Publisher
	logger *zap.Logger
}

// NewPulse creates a new pulse.
func NewPulse(config Config, bus Publisher, logger *zap.Logger) *Pulse {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pulse{
		config: config,
		bus:    bus,
		logger: logger,
	}
}

// Run publishes the startup hook, then each configured hook on its interval
// with the tick time as argument, and the shutdown hook once ctx is done.
// This blocks until ctx is canceled.
func (p *Pulse) Run(ctx context.Context) error {
	if err := p.config.Validate(); err != nil {
		return err
	}

	hooks := make([]string, 0, len(p.config.Hooks))
	for hook := range p.config.Hooks {
		hooks = append(hooks, hook)
	}
	sort.Strings(hooks)

	p.logger.Info("pulse started", zap.Strings("hooks", hooks))
	p.publish(StartupHook)

	// Tickers fan in to one channel so publishing stays on this goroutine.
	fired := make(chan tick)
	done := make(chan struct{})
	defer close(done)

	for _, hook := range hooks {
		ticker := time.NewTicker(p.config.Hooks[hook])
		defer ticker.Stop()

		go func(hook string, c <-chan time.Time) {
			for {
				select {
				case <-done:
					return
				case t := <-c:
					select {
					case fired <- tick{hook: hook, at: t}:
					case <-done:
						return
					}
				}
			}
		}(hook, ticker.C)
	}

	for {
		select {
		case <-ctx.Done():
			p.publish(ShutdownHook)
			p.logger.Info("pulse stopping")
			return ctx.Err()

		case t := <-fired:
			p.publish(t.hook, t.at)
		}
	}
}

type tick struct {
	hook string
	at   time.Time
}

// publish logs failures; a failing subscriber does not stop the pulse.
func (p *Pulse) publish(hook string, args ...any) {
	if err := p.bus.Publish(hook, args...); err != nil {
		p.logger.Warn("hook publish failed", zap.String("hook", hook), zap.Error(err))
		return
	}
	p.logger.Debug("hook published", zap.String("hook", hook))
}
