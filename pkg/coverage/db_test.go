package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBAddCreatesIntermediateContainers(t *testing.T) {
	db := newDB()
	p, err := NewCoverPoint("top.sub.leaf", []interface{}{1, 2}, "x")
	require.NoError(t, err)
	require.NoError(t, db.Add(p))

	top, err := db.Get("top")
	require.NoError(t, err)
	_, isContainer := top.(*Container)
	assert.True(t, isContainer)

	sub, err := db.Get("top.sub")
	require.NoError(t, err)
	_, isContainer = sub.(*Container)
	assert.True(t, isContainer)

	assert.Equal(t, 2, top.Size())
}

func TestDBRejectsDuplicateName(t *testing.T) {
	db := newDB()
	p1, _ := NewCoverPoint("dup.p", []interface{}{1}, "x")
	p2, _ := NewCoverPoint("dup.p", []interface{}{1}, "x")
	require.NoError(t, db.Add(p1))
	err := db.Add(p2)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestDBGetUnknownName(t *testing.T) {
	db := newDB()
	_, err := db.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestResetDBGivesFreshRegistry(t *testing.T) {
	ResetDB()
	p, _ := NewCoverPoint("r.p", []interface{}{1}, "x")
	require.NoError(t, DB().Add(p))
	ResetDB()
	_, err := DB().Get("r.p")
	assert.ErrorIs(t, err, ErrUnknownName)
}
