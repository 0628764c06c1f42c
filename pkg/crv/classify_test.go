package crv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHard(t *testing.T) {
	k, hardFn, distFn, err := classify(func(v Values) bool {
		return v.Int("x") < v.Int("y")
	})
	require.NoError(t, err)
	assert.Equal(t, kindHard, k)
	assert.Nil(t, distFn)

	ok, err := hardFn(Values{"x": 1, "y": 2})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClassifyDistribution(t *testing.T) {
	k, hardFn, distFn, err := classify(func(v Values) float64 {
		if v.Int("x") == 0 {
			return 5
		}
		return 1
	})
	require.NoError(t, err)
	assert.Equal(t, kindDistribution, k)
	assert.Nil(t, hardFn)

	w, err := distFn(Values{"x": 0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, w)
}

func TestClassifyRejectsWrongSignature(t *testing.T) {
	_, _, _, err := classify(func(a, b int) bool { return a < b })
	assert.ErrorIs(t, err, ErrClassification)
}

func TestClassifyPropagatesFunctionError(t *testing.T) {
	boom := assert.AnError
	_, hardFn, _, err := classify(func(v Values) (bool, error) {
		return false, boom
	})
	require.NoError(t, err)
	_, callErr := hardFn(Values{})
	assert.ErrorIs(t, callErr, boom)
}
