package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

func TestList(t *testing.T) {
	built := struct{ name string }{"instance"}

	tests := []struct {
		name string
		raw  any
		want []any
	}{
		{name: "nil", raw: nil, want: nil},
		{name: "empty", raw: []any{}, want: nil},
		{name: "single spec", raw: []any{"hook", "tick"}, want: []any{[]any{"hook", "tick"}}},
		{name: "bare aliases are one spec", raw: []any{"hook-a", "hook-b"}, want: []any{[]any{"hook-a", "hook-b"}}},
		{name: "nested specs", raw: []any{[]any{"hook", "a"}, "hook-b"}, want: []any{[]any{"hook", "a"}, "hook-b"}},
		{name: "bare alias", raw: "hook", want: []any{"hook"}},
		{name: "built instance", raw: built, want: []any{built}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, List(tt.raw))
		})
	}
}

func TestSplit(t *testing.T) {
	alias, rest, err := Split([]any{"hook-a", "hook-b"})
	require.NoError(t, err)
	assert.Equal(t, "hook-a", alias)
	assert.Equal(t, []any{"hook-b"}, rest)

	alias, rest, err = Split("hook")
	require.NoError(t, err)
	assert.Equal(t, "hook", alias)
	assert.Empty(t, rest)

	for _, bad := range []any{"", []any{}, []any{":hook", "x"}, 42} {
		_, _, err := Split(bad)
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	}
}
