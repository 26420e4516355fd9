// Package domain contains core entities, collaborator interfaces and the
// error taxonomy. This is the innermost layer - no external dependencies.
package domain

// Host bundles the external collaborators a monitor tree talks to.
type Host struct {
	Events EventSource
	Eval   Evaluator
}

// Base class names of the three spec families.
const (
	ClassMonitor  = "monitor"
	ClassListener = "listener"
	ClassGuard    = "guard"
)

// MonitorInfo is a read-only snapshot of a monitor for status output.
type MonitorInfo struct {
	Name      string
	ID        string
	Class     string
	Enabled   bool
	Listeners int
	Guards    int
}
