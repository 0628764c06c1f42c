package crv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Randomized
	Width  int
	Height int
	label  string //nolint:unused
}

func TestStructValuesSkipsRandomizedAndUnexported(t *testing.T) {
	w := &widget{Width: 3, Height: 4}
	vals, err := structValues(w)
	require.NoError(t, err)
	assert.Equal(t, 3, vals["Width"])
	assert.Equal(t, 4, vals["Height"])
	_, hasEmbedded := vals["Randomized"]
	assert.False(t, hasEmbedded)
	_, hasLabel := vals["label"]
	assert.False(t, hasLabel)
}

func TestBindFieldsConvertsAssignableTypes(t *testing.T) {
	w := &widget{}
	err := bindFields(w, map[string]interface{}{"Width": int64(7), "Height": 9})
	require.NoError(t, err)
	assert.Equal(t, 7, w.Width)
	assert.Equal(t, 9, w.Height)
}

func TestBindFieldsIgnoresUnknownNames(t *testing.T) {
	w := &widget{}
	err := bindFields(w, map[string]interface{}{"NotAField": 1})
	require.NoError(t, err)
}
