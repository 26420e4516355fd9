package infra

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// ProcessEvaluator samples process-table state using gopsutil.
//
//	count:<pattern>    number of processes whose name matches (int)
//	running:<pattern>  whether any process matches (bool)
//
// Patterns match case-insensitively, as a substring of the process name.
type ProcessEvaluator struct {
	names func() ([]string, error)
}

// NewProcessEvaluator creates an evaluator over the live process table.
func NewProcessEvaluator() *ProcessEvaluator {
	return &ProcessEvaluator{names: processNames}
}

// NewProcessEvaluatorWithLister creates an evaluator over a custom process
// name source (for testing).
func NewProcessEvaluatorWithLister(names func() ([]string, error)) *ProcessEvaluator {
	return &ProcessEvaluator{names: names}
}

func processNames() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		names = append(names, name)
	}
	return names, nil
}

// Sample evaluates a count: or running: expression.
func (pe *ProcessEvaluator) Sample(expr any) (any, error) {
	s, ok := expr.(string)
	if !ok {
		return nil, &domain.TypeMismatchError{Want: "process expression", Got: expr}
	}

	op, pattern, found := strings.Cut(s, ":")
	if !found || pattern == "" {
		return nil, fmt.Errorf("%w: %q (want count:<pattern> or running:<pattern>)", domain.ErrNoEvaluator, s)
	}

	switch op {
	case "count":
		return pe.count(pattern)
	case "running":
		n, err := pe.count(pattern)
		return n > 0, err
	}
	return nil, fmt.Errorf("%w: unknown process query %q", domain.ErrNoEvaluator, op)
}

// count returns how many process names contain pattern (case-insensitive).
func (pe *ProcessEvaluator) count(pattern string) (int, error) {
	names, err := pe.names()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}

	patternLower := strings.ToLower(pattern)
	n := 0
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), patternLower) {
			n++
		}
	}
	return n, nil
}

// Ensure ProcessEvaluator implements domain.Evaluator.
var _ domain.Evaluator = (*ProcessEvaluator)(nil)
