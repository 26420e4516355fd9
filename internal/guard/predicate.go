package guard

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Predicate compares the previous and the latest sample of an expression.
type Predicate func(old, new any) bool

// Built-in predicates, addressable by name from specs and the CLI.
var (
	Changed      Predicate = func(old, new any) bool { return !reflect.DeepEqual(old, new) }
	Unchanged    Predicate = func(old, new any) bool { return reflect.DeepEqual(old, new) }
	Increased    Predicate = func(old, new any) bool { return compare(old, new) > 0 }
	Decreased    Predicate = func(old, new any) bool { return compare(old, new) < 0 }
	BecameNonNil Predicate = func(old, new any) bool { return isNil(old) && !isNil(new) }
	BecameNil    Predicate = func(old, new any) bool { return !isNil(old) && isNil(new) }
	Always       Predicate = func(old, new any) bool { return true }
)

var predicates = map[string]Predicate{
	"changed":        Changed,
	"unchanged":      Unchanged,
	"increased":      Increased,
	"decreased":      Decreased,
	"became-non-nil": BecameNonNil,
	"became-nil":     BecameNil,
	"always":         Always,
}

// PredicateNames returns the names of the built-in predicates, sorted.
func PredicateNames() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToPredicate accepts a Predicate, a plain func(old, new any) bool or the
// name of a built-in. nil selects Changed.
func ToPredicate(v any) (Predicate, error) {
	switch p := v.(type) {
	case nil:
		return Changed, nil
	case Predicate:
		return p, nil
	case func(old, new any) bool:
		return p, nil
	case string:
		if pred, ok := predicates[p]; ok {
			return pred, nil
		}
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPredicate, p)
	}
	return nil, &domain.TypeMismatchError{Want: "predicate", Got: v}
}

// compare returns +1 when new > old, -1 when new < old and 0 otherwise,
// including when either side is not a number.
func compare(old, new any) int {
	o, ok := number(old)
	if !ok {
		return 0
	}
	n, ok := number(new)
	if !ok {
		return 0
	}
	switch {
	case n > o:
		return 1
	case n < o:
		return -1
	}
	return 0
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
