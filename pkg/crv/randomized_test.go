package crv

import (
	"testing"

	"github.com/gitrdm/cocotbgo/pkg/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type packet struct {
	Randomized
	Size int
	Kind int
}

func rangeInts(lo, hi int) []interface{} {
	out := make([]interface{}, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func newPacket() *packet {
	p := &packet{}
	p.Init(p)
	p.WithSeed(7)
	p.AddRand("Size", solver.MustDomain(rangeInts(0, 15)...))
	p.AddRand("Kind", solver.MustDomain(rangeInts(0, 3)...))
	return p
}

func TestRandomizeSatisfiesHardConstraint(t *testing.T) {
	p := newPacket()
	require.NoError(t, p.AddConstraint([]string{"Size"}, func(v Values) bool {
		return v.Int("Size") >= 8
	}))

	for i := 0; i < 20; i++ {
		require.NoError(t, p.Randomize())
		assert.GreaterOrEqual(t, p.Size, 8)
	}
}

func TestRandomizeNoSolutionLeavesFieldsUntouched(t *testing.T) {
	p := newPacket()
	p.Size = 99
	require.NoError(t, p.AddConstraint([]string{"Size"}, func(v Values) bool {
		return v.Int("Size") > 100
	}))

	err := p.Randomize()
	assert.ErrorIs(t, err, ErrSolverFailed)
	assert.Equal(t, 99, p.Size)
}

func TestRandomizeWithOverridesRegisteredConstraint(t *testing.T) {
	p := newPacket()
	require.NoError(t, p.AddConstraint([]string{"Size"}, func(v Values) bool {
		return v.Int("Size") < 5
	}))

	err := p.RandomizeWith(NewExtra([]string{"Size"}, func(v Values) bool {
		return v.Int("Size") > 10
	}))
	require.NoError(t, err)
	assert.Greater(t, p.Size, 10)
}

func TestSolveOrderGroupsSeeEarlierValues(t *testing.T) {
	p := newPacket()
	p.SolveOrder([]string{"Kind"}, []string{"Size"})
	require.NoError(t, p.AddConstraint([]string{"Size", "Kind"}, func(v Values) bool {
		return v.Int("Size") == v.Int("Kind")*4
	}))

	require.NoError(t, p.Randomize())
	assert.Equal(t, p.Kind*4, p.Size)
}

func TestDelConstraintRemovesRule(t *testing.T) {
	p := newPacket()
	require.NoError(t, p.AddConstraint([]string{"Size"}, func(v Values) bool {
		return v.Int("Size") == 1000
	}))
	p.DelConstraint([]string{"Size"})
	require.NoError(t, p.Randomize())
}

func TestUnknownVariableNameIsRejected(t *testing.T) {
	p := newPacket()
	require.NoError(t, p.AddConstraint([]string{"Bogus"}, func(v Values) bool { return true }))
	err := p.Randomize()
	assert.ErrorIs(t, err, ErrUnknownVariable)
}
