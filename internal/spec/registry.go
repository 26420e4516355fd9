package spec

import (
	"fmt"
	"sort"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Class is one concrete kind within a family.
// F is the family's constructor signature.
type Class[F any] struct {
	Name   string // unique across the registry
	Parent string // empty for a family root
	Alias  string // optional, unique within the family
	New    F
}

// Registry holds the classes of one or more families.
// Classes form a forest through Parent; a family is the tree under a root.
type Registry[F any] struct {
	classes  map[string]Class[F]
	children map[string][]string // parent -> subclasses in registration order
}

// NewRegistry creates an empty registry.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{
		classes:  make(map[string]Class[F]),
		children: make(map[string][]string),
	}
}

// Register adds a class. The parent must already be registered.
// Duplicate names and duplicate aliases within a family are rejected.
func (r *Registry[F]) Register(c Class[F]) error {
	if c.Name == "" {
		return fmt.Errorf("class name is required")
	}
	if _, exists := r.classes[c.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateClass, c.Name)
	}
	if c.Parent != "" {
		if _, ok := r.classes[c.Parent]; !ok {
			return fmt.Errorf("%s: parent class %q is not registered", c.Name, c.Parent)
		}
	}

	if c.Alias != "" {
		root := c.Name
		if c.Parent != "" {
			root = r.root(c.Parent)
		}
		if owner, taken := r.findAlias(root, c.Alias); taken {
			return fmt.Errorf("%w: %q is declared by %s", domain.ErrDuplicateAlias, c.Alias, owner)
		}
	}

	r.classes[c.Name] = c
	if c.Parent != "" {
		r.children[c.Parent] = append(r.children[c.Parent], c.Name)
	}
	return nil
}

// MustRegister is Register for package-level defaults; it panics on error.
func (r *Registry[F]) MustRegister(c Class[F]) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Lookup returns a class by name.
func (r *Registry[F]) Lookup(name string) (Class[F], bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Resolve finds the class declaring alias within the tree rooted at base.
// base itself is checked first, then its subclasses depth-first in
// registration order.
func (r *Registry[F]) Resolve(base, alias string) (Class[F], error) {
	if _, ok := r.classes[base]; ok && alias != "" {
		if name, found := r.findAlias(base, alias); found {
			return r.classes[name], nil
		}
	}
	return Class[F]{}, &domain.AliasNotFoundError{Family: base, Alias: alias}
}

func (r *Registry[F]) findAlias(name, alias string) (string, bool) {
	if r.classes[name].Alias == alias {
		return name, true
	}
	for _, child := range r.children[name] {
		if found, ok := r.findAlias(child, alias); ok {
			return found, true
		}
	}
	return "", false
}

func (r *Registry[F]) root(name string) string {
	for {
		parent := r.classes[name].Parent
		if parent == "" {
			return name
		}
		name = parent
	}
}

// Inherits reports whether name is base or one of its descendants.
func (r *Registry[F]) Inherits(name, base string) bool {
	if _, ok := r.classes[name]; !ok {
		return false
	}
	for name != "" {
		if name == base {
			return true
		}
		name = r.classes[name].Parent
	}
	return false
}

// Aliases returns the aliases declared in the tree rooted at base,
// depth-first.
func (r *Registry[F]) Aliases(base string) []string {
	var out []string
	var walk func(string)
	walk = func(name string) {
		if a := r.classes[name].Alias; a != "" {
			out = append(out, a)
		}
		for _, child := range r.children[name] {
			walk(child)
		}
	}
	if _, ok := r.classes[base]; ok {
		walk(base)
	}
	return out
}

// List returns all class names, sorted.
func (r *Registry[F]) List() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
