package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerInvokesWrappedFunctionThenItems(t *testing.T) {
	p, err := NewCoverPoint("s.p", []interface{}{1, 2}, "x")
	require.NoError(t, err)

	var called bool
	s := NewSampler(func(a Args) error { called = true; return nil }, p)
	require.NoError(t, s.Invoke(Args{"x": 1}))

	assert.True(t, called)
	assert.Equal(t, 1, p.Coverage())
}

func TestSectionComposesMultiplePrimitives(t *testing.T) {
	p1, _ := NewCoverPoint("sec.a", []interface{}{1}, "x")
	p2, _ := NewCoverPoint("sec.b", []interface{}{1}, "y")
	section := NewSection(p1, p2)

	require.NoError(t, section.Sample(Args{"x": 1, "y": 1}))
	assert.Equal(t, 1, p1.Coverage())
	assert.Equal(t, 1, p2.Coverage())
}
