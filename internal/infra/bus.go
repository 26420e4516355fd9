// Package infra implements the external collaborators monitors talk to:
// the hook bus (event source) and the host-state evaluators.
package infra

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Bus implements domain.EventSource with in-memory named hooks.
// Subscribers are compared with ==, so they must be comparable values
// (pointers in practice).
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]domain.Subscriber
	logger *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string][]domain.Subscriber),
		logger: logger,
	}
}

// Subscribe adds sub to hook id. A subscriber already on the hook is not
// added twice.
func (b *Bus) Subscribe(id string, sub domain.Subscriber) error {
	if sub == nil {
		return fmt.Errorf("subscribe %s: nil subscriber", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs[id] {
		if s == sub {
			return nil
		}
	}
	b.subs[id] = append(b.subs[id], sub)
	b.logger.Debug("hook subscribed", zap.String("hook", id), zap.Int("subscribers", len(b.subs[id])))
	return nil
}

// Unsubscribe removes sub from hook id. Absent subscribers are ignored.
func (b *Bus) Unsubscribe(id string, sub domain.Subscriber) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[id]
	for i, s := range list {
		if s != sub {
			continue
		}
		rest := make([]domain.Subscriber, 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)
		if len(rest) == 0 {
			delete(b.subs, id)
		} else {
			b.subs[id] = rest
		}
		b.logger.Debug("hook unsubscribed", zap.String("hook", id), zap.Int("subscribers", len(rest)))
		return nil
	}
	return nil
}

// Publish notifies the subscribers of hook id in subscription order, on the
// caller's goroutine. The first subscriber error stops the run and is
// returned.
func (b *Bus) Publish(id string, args ...any) error {
	b.mu.Lock()
	subs := append([]domain.Subscriber(nil), b.subs[id]...)
	b.mu.Unlock()

	for _, s := range subs {
		if err := s.Notify(args...); err != nil {
			return fmt.Errorf("hook %s: %w", id, err)
		}
	}
	return nil
}

// Subscribers returns how many subscribers hook id has.
func (b *Bus) Subscribers(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[id])
}

// Hooks returns the hooks that have subscribers, sorted.
func (b *Bus) Hooks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	hooks := make([]string, 0, len(b.subs))
	for id := range b.subs {
		hooks = append(hooks, id)
	}
	sort.Strings(hooks)
	return hooks
}

// Ensure Bus implements domain.EventSource.
var _ domain.EventSource = (*Bus)(nil)
