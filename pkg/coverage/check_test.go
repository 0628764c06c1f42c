package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverCheckAssertionScenario(t *testing.T) {
	fFail := func(a Args) (bool, error) { return a["a"] == a["b"], nil }
	fPass := func(a Args) (bool, error) { return a["a"] == 1, nil }

	var failFired int
	c, err := NewCoverCheck("chk.c", fFail, fPass)
	require.NoError(t, err)
	c.AddBinsCallback("FAIL", func(item Item, label string, value interface{}) { failFired++ })

	require.NoError(t, c.Sample(Args{"a": 1, "b": 2}))
	assert.Equal(t, CheckPass, c.State())
	assert.Equal(t, c.Size(), c.Coverage())

	require.NoError(t, c.Sample(Args{"a": 2, "b": 2}))
	assert.Equal(t, CheckFail, c.State())
	assert.Equal(t, 0, c.Coverage())
	assert.Equal(t, 1, failFired)

	require.NoError(t, c.Sample(Args{"a": 1, "b": 2}))
	assert.Equal(t, CheckFail, c.State())
	assert.Equal(t, 0, c.Coverage())
	assert.Equal(t, 1, failFired)
}

func TestCoverCheckDefaultPass(t *testing.T) {
	c, err := NewCoverCheck("chk.d", func(a Args) (bool, error) { return false, nil }, nil)
	require.NoError(t, err)
	require.NoError(t, c.Sample(Args{}))
	assert.Equal(t, CheckPass, c.State())
}
