package domain

// Enabler is anything with the enable/disable lifecycle.
// Enable and Disable are idempotent: repeating a transition is a no-op.
type Enabler interface {
	// Enable runs the variant's enable logic, sets the flag, then enables children.
	Enable() error

	// Disable runs the variant's teardown, clears the flag, then disables children.
	Disable() error

	// Enabled reports the current state.
	Enabled() bool
}

// Guard gates a trigger. Guards are owned by the object they guard.
type Guard interface {
	Enabler

	// Test reports whether triggering may proceed.
	// Implementations may refresh internal state as a side effect.
	Test() (bool, error)

	// Owner returns the object this guard gates (non-owning).
	Owner() any
}

// Subscriber is registered on an EventSource.
// Event sources compare subscribers by identity, so the same value must be
// used for Subscribe and Unsubscribe.
type Subscriber interface {
	// Notify is called synchronously on the publisher's stack.
	Notify(args ...any) error
}

// EventSource is a set of named pub/sub channels ("hooks").
// Implementation: infra.Bus (in-memory).
type EventSource interface {
	// Subscribe adds sub to the channel named id.
	// Subscribing an already registered subscriber is a no-op.
	Subscribe(id string, sub Subscriber) error

	// Unsubscribe removes sub from the channel named id.
	// Removing an absent subscriber is a no-op.
	Unsubscribe(id string, sub Subscriber) error
}

// Evaluator samples host state.
// Sample must be synchronous and free of side effects.
// Implementations: infra.Vars, infra.FuncEvaluator, infra.ProcessEvaluator, infra.Mux.
type Evaluator interface {
	Sample(expr any) (any, error)
}
