package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// mockGuard implements domain.Guard for testing
type mockGuard struct {
	CanEnable
	results    []bool
	testErr    error
	enableErr  error
	disableErr error
	tests      int
}

func (m *mockGuard) Enable() error {
	return m.Transition(true, func() error { return m.enableErr }, nil)
}

func (m *mockGuard) Disable() error {
	return m.Transition(false, func() error { return m.disableErr }, nil)
}

func (m *mockGuard) Test() (bool, error) {
	m.tests++
	if m.testErr != nil {
		return false, m.testErr
	}
	if len(m.results) == 0 {
		return true, nil
	}
	r := m.results[0]
	m.results = m.results[1:]
	return r, nil
}

func (m *mockGuard) Owner() any { return nil }

func guards(gs ...*mockGuard) []domain.Guard {
	out := make([]domain.Guard, len(gs))
	for i, g := range gs {
		out[i] = g
	}
	return out
}

func TestCanEnable_Transition(t *testing.T) {
	var c CanEnable
	steps, cascades := 0, 0
	step := func() error { steps++; return nil }
	cascade := func() error { cascades++; return nil }

	require.NoError(t, c.Transition(true, step, cascade))
	require.NoError(t, c.Transition(true, step, cascade))
	assert.True(t, c.Enabled())
	assert.Equal(t, 1, steps)
	assert.Equal(t, 1, cascades)

	require.NoError(t, c.Transition(false, step, cascade))
	require.NoError(t, c.Transition(false, step, cascade))
	assert.False(t, c.Enabled())
	assert.Equal(t, 2, steps)
	assert.Equal(t, 2, cascades)
}

func TestCanEnable_StepFailureKeepsState(t *testing.T) {
	var c CanEnable
	boom := errors.New("boom")
	cascaded := false

	err := c.Transition(true, func() error { return boom }, func() error { cascaded = true; return nil })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Enabled())
	assert.False(t, cascaded)
}

func TestCanEnable_CascadeFailureKeepsNewState(t *testing.T) {
	var c CanEnable
	boom := errors.New("boom")

	err := c.Transition(true, nil, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.Enabled())
}

func TestTest_EmptyChainPasses(t *testing.T) {
	ok, err := Test(nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestTest_SamplesEveryGuard verifies a failed guard does not stop later
// guards from being tested.
func TestTest_SamplesEveryGuard(t *testing.T) {
	first := &mockGuard{results: []bool{false}}
	second := &mockGuard{results: []bool{true}}

	ok, err := Test(guards(first, second))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, first.tests)
	assert.Equal(t, 1, second.tests)
}

func TestTest_ErrorStopsChain(t *testing.T) {
	boom := errors.New("sample failed")
	first := &mockGuard{testErr: boom}
	second := &mockGuard{}

	ok, err := Test(guards(first, second))
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, 0, second.tests)
}

func TestCanTrigger_Trigger(t *testing.T) {
	tests := []struct {
		name      string
		results   []bool
		wantFired bool
	}{
		{name: "all pass", results: []bool{true, true}, wantFired: true},
		{name: "one fails", results: []bool{true, false}, wantFired: false},
		{name: "no guards", results: nil, wantFired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gs []*mockGuard
			for _, r := range tt.results {
				gs = append(gs, &mockGuard{results: []bool{r}})
			}

			var got []any
			var c CanTrigger
			c.SetGuards(guards(gs...))
			c.OnTrigger(func(args ...any) error {
				got = args
				return nil
			})

			fired, err := c.Trigger("a", 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFired, fired)
			if tt.wantFired {
				assert.Equal(t, []any{"a", 1}, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestCanTrigger_ActionError(t *testing.T) {
	boom := errors.New("action failed")
	var c CanTrigger
	c.OnTrigger(func(args ...any) error { return boom })

	fired, err := c.Trigger()
	assert.True(t, fired)
	assert.ErrorIs(t, err, boom)
}

func TestCanTrigger_NoAction(t *testing.T) {
	var c CanTrigger
	assert.False(t, c.HasAction())

	fired, err := c.Trigger()
	require.NoError(t, err)
	assert.True(t, fired)
}

func TestCanTrigger_DefaultAction(t *testing.T) {
	var c CanTrigger
	calls := ""
	c.DefaultAction(func(args ...any) error { calls += "default"; return nil })
	c.DefaultAction(func(args ...any) error { calls += "second"; return nil })

	_, err := c.Trigger()
	require.NoError(t, err)
	assert.Equal(t, "default", calls)

	c.OnTrigger(func(args ...any) error { calls += "+explicit"; return nil })
	_, err = c.Trigger()
	require.NoError(t, err)
	assert.Equal(t, "default+explicit", calls)
}

func TestCanTrigger_GuardsCopy(t *testing.T) {
	var c CanTrigger
	c.SetGuards(guards(&mockGuard{}))

	gs := c.Guards()
	gs[0] = nil
	assert.NotNil(t, c.Guards()[0])
}

func TestCanTrigger_EnableGuardsStopsAtFirstError(t *testing.T) {
	boom := errors.New("enable failed")
	first := &mockGuard{enableErr: boom}
	second := &mockGuard{}

	var c CanTrigger
	c.SetGuards(guards(first, second))

	assert.ErrorIs(t, c.EnableGuards(), boom)
	assert.False(t, second.Enabled())
}

// TestCanTrigger_DisableGuardsCombinesErrors verifies every guard is
// disabled even when earlier guards fail.
func TestCanTrigger_DisableGuardsCombinesErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	a := &mockGuard{disableErr: errA}
	b := &mockGuard{disableErr: errB}
	c3 := &mockGuard{}

	var c CanTrigger
	c.SetGuards(guards(a, b, c3))
	require.NoError(t, c.EnableGuards())

	err := c.DisableGuards()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.False(t, c3.Enabled())
}
