package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

type testFactory func() string

// newTestRegistry builds:
//
//	listener
//	├── hook-listener (hook)
//	│   └── after-hook (after)
//	└── timer (timer)
//	other (timer)
func newTestRegistry(t *testing.T) *Registry[testFactory] {
	t.Helper()
	r := NewRegistry[testFactory]()
	require.NoError(t, r.Register(Class[testFactory]{Name: "listener"}))
	require.NoError(t, r.Register(Class[testFactory]{Name: "hook-listener", Parent: "listener", Alias: "hook"}))
	require.NoError(t, r.Register(Class[testFactory]{Name: "after-hook", Parent: "hook-listener", Alias: "after"}))
	require.NoError(t, r.Register(Class[testFactory]{Name: "timer", Parent: "listener", Alias: "timer"}))
	require.NoError(t, r.Register(Class[testFactory]{Name: "other", Alias: "timer"}))
	return r
}

func TestRegistry_Resolve(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name  string
		base  string
		alias string
		want  string
	}{
		{name: "direct subclass", base: "listener", alias: "hook", want: "hook-listener"},
		{name: "nested subclass", base: "listener", alias: "after", want: "after-hook"},
		{name: "base declares alias", base: "hook-listener", alias: "hook", want: "hook-listener"},
		{name: "family scoped", base: "other", alias: "timer", want: "other"},
		{name: "sibling family", base: "listener", alias: "timer", want: "timer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := r.Resolve(tt.base, tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name)
		})
	}
}

func TestRegistry_ResolveNotFound(t *testing.T) {
	r := newTestRegistry(t)

	for _, tc := range []struct{ base, alias string }{
		{"listener", "missing"},
		{"timer", "hook"},
		{"nope", "hook"},
		{"listener", ""},
	} {
		_, err := r.Resolve(tc.base, tc.alias)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAliasNotFound)

		var notFound *domain.AliasNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, tc.alias, notFound.Alias)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Register(Class[testFactory]{Name: "timer", Parent: "listener"})
	assert.ErrorIs(t, err, domain.ErrDuplicateClass)

	err = r.Register(Class[testFactory]{Name: "hook2", Parent: "after-hook", Alias: "hook"})
	assert.ErrorIs(t, err, domain.ErrDuplicateAlias)

	err = r.Register(Class[testFactory]{Name: "orphan", Parent: "missing"})
	assert.Error(t, err)

	err = r.Register(Class[testFactory]{})
	assert.Error(t, err)
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := newTestRegistry(t)
	assert.Panics(t, func() {
		r.MustRegister(Class[testFactory]{Name: "listener"})
	})
}

func TestRegistry_Inherits(t *testing.T) {
	r := newTestRegistry(t)

	assert.True(t, r.Inherits("after-hook", "listener"))
	assert.True(t, r.Inherits("listener", "listener"))
	assert.False(t, r.Inherits("other", "listener"))
	assert.False(t, r.Inherits("listener", "after-hook"))
	assert.False(t, r.Inherits("unknown", "listener"))
}

func TestRegistry_AliasesAndList(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, []string{"hook", "after", "timer"}, r.Aliases("listener"))
	assert.Empty(t, r.Aliases("unknown"))
	assert.Equal(t, []string{"after-hook", "hook-listener", "listener", "other", "timer"}, r.List())

	c, ok := r.Lookup("timer")
	require.True(t, ok)
	assert.Equal(t, "listener", c.Parent)
}
