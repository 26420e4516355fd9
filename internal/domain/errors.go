package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingRequiredOption is returned by setup when required options are unbound.
	ErrMissingRequiredOption = errors.New("missing required option")

	// ErrDoesNotInheritBaseMonitorClass is returned by create for a class outside the monitor family.
	ErrDoesNotInheritBaseMonitorClass = errors.New("class does not inherit base monitor class")

	// ErrAliasNotFound is returned when no class in a family declares an alias.
	ErrAliasNotFound = errors.New("alias not found")

	// ErrTypeMismatch is returned when an API receives an object of the wrong role.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingValue is returned when a keyword is the last token of a spec.
	ErrMissingValue = errors.New("keyword without value")

	// ErrTooManyPositional is returned when a variant receives more positional arguments than it maps.
	ErrTooManyPositional = errors.New("too many positional arguments")

	// ErrUnknownOption is returned when a spec carries a keyword its class does not declare.
	ErrUnknownOption = errors.New("unknown option")

	// ErrDuplicateAlias is returned when two classes of one family share an alias.
	ErrDuplicateAlias = errors.New("duplicate alias")

	// ErrDuplicateClass is returned when a class name is registered twice.
	ErrDuplicateClass = errors.New("duplicate class")

	// ErrUnbound is returned when a guard is tested while its sample is unbound.
	ErrUnbound = errors.New("value is unbound")

	// ErrUnknownPredicate is returned for a predicate name with no built-in.
	ErrUnknownPredicate = errors.New("unknown predicate")

	// ErrNoEvaluator is returned when no evaluator accepts an expression.
	ErrNoEvaluator = errors.New("no evaluator for expression")

	// ErrNoEventSource is returned when a listener is built without an event source.
	ErrNoEventSource = errors.New("no event source")
)

// MissingRequiredOptionError lists the required options a spec left unbound.
type MissingRequiredOptionError struct {
	Class  string
	Fields []string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("%s: missing required option(s): %s", e.Class, strings.Join(e.Fields, ", "))
}

func (e *MissingRequiredOptionError) Unwrap() error { return ErrMissingRequiredOption }

// DoesNotInheritError names the class that is not a monitor class.
type DoesNotInheritError struct {
	Class string
}

func (e *DoesNotInheritError) Error() string {
	return fmt.Sprintf("%s does not inherit %s", e.Class, ClassMonitor)
}

func (e *DoesNotInheritError) Unwrap() error { return ErrDoesNotInheritBaseMonitorClass }

// AliasNotFoundError names the family and alias of a failed lookup.
type AliasNotFoundError struct {
	Family string
	Alias  string
}

func (e *AliasNotFoundError) Error() string {
	return fmt.Sprintf("alias %q unknown for class %s", e.Alias, e.Family)
}

func (e *AliasNotFoundError) Unwrap() error { return ErrAliasNotFound }

// TypeMismatchError describes an object that does not satisfy the expected role.
type TypeMismatchError struct {
	Want string
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
