package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossWithIgnoreScenario(t *testing.T) {
	ResetDB()
	db := DB()

	x, err := NewCoverPoint("a.x", []interface{}{0, 1}, "x")
	require.NoError(t, err)
	require.NoError(t, db.Add(x))

	y, err := NewCoverPoint("a.y", []interface{}{0, 1, 2}, "y")
	require.NoError(t, err)
	require.NoError(t, db.Add(y))

	cross, err := NewCoverCross("a.c", []*CoverPoint{x, y}, [][]interface{}{{Any, 2}})
	require.NoError(t, err)
	require.NoError(t, db.Add(cross))

	assert.Len(t, cross.bins, 4)

	section := NewSection(x, y, cross)
	require.NoError(t, section.Sample(Args{"x": 0, "y": 2}))

	assert.Equal(t, 0, cross.Coverage())
	assert.Equal(t, 1, x.Coverage())
}

func TestCrossRejectsMismatchedIgnoreArity(t *testing.T) {
	x, err := NewCoverPoint("b.x", []interface{}{0, 1}, "x")
	require.NoError(t, err)
	y, err := NewCoverPoint("b.y", []interface{}{0, 1}, "y")
	require.NoError(t, err)

	_, err = NewCoverCross("b.c", []*CoverPoint{x, y}, [][]interface{}{{0}})
	assert.Error(t, err)
}
