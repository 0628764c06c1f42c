package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeRel(value, bin interface{}) bool {
	v := value.(int)
	r := bin.([2]int)
	return v >= r[0] && v <= r[1]
}

func TestMemoryCoverageScenario(t *testing.T) {
	ResetDB()
	db := DB()

	addr, err := NewCoverPoint("memory.address", []interface{}{[2]int{0, 50}, [2]int{51, 150}, [2]int{151, 255}}, "addr", WithRel(rangeRel))
	require.NoError(t, err)
	require.NoError(t, db.Add(addr))

	parity, err := NewCoverPoint("memory.parity", []interface{}{0, 1}, "par")
	require.NoError(t, err)
	require.NoError(t, db.Add(parity))

	rw, err := NewCoverPoint("memory.rw", []interface{}{0, 1}, "rw")
	require.NoError(t, err)
	require.NoError(t, db.Add(rw))

	section := NewSection(addr, parity, rw)
	require.NoError(t, section.Sample(Args{"addr": 25, "par": 0, "rw": 1}))
	require.NoError(t, section.Sample(Args{"addr": 100, "par": 1, "rw": 0}))

	mem, err := db.Get("memory")
	require.NoError(t, err)
	assert.Equal(t, 6, mem.Coverage())
	assert.Equal(t, 7, mem.Size())
	assert.InDelta(t, 66.67, addr.CoverPercentage(), 0.01)
}

func TestTransitionBinsScenario(t *testing.T) {
	ResetDB()
	db := DB()

	seq, err := NewTransitionCoverPoint("t.seq", [][]interface{}{{0, 1}, {1, 2}, {2, 3}}, "v")
	require.NoError(t, err)
	require.NoError(t, db.Add(seq))

	for _, v := range []int{0, 1, 2, 3} {
		require.NoError(t, seq.Sample(Args{"v": v}))
	}

	assert.Equal(t, 3, seq.Coverage())
	detail := seq.DetailedCoverage()
	assert.Equal(t, 1, detail["[0 1]"])
}

func TestPointWeightAndAtLeast(t *testing.T) {
	p, err := NewCoverPoint("w.p", []interface{}{1, 2}, "x", WithWeight(3), WithAtLeast(2))
	require.NoError(t, err)
	require.NoError(t, p.Sample(Args{"x": 1}))
	assert.Equal(t, 0, p.Coverage())
	require.NoError(t, p.Sample(Args{"x": 1}))
	assert.Equal(t, 3, p.Coverage())
	assert.Equal(t, 6, p.Size())
}

func TestDuplicateBinRejected(t *testing.T) {
	_, err := NewCoverPoint("d.p", []interface{}{1, 1}, "x")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestNewHitsConsumedOnRead(t *testing.T) {
	p, err := NewCoverPoint("n.p", []interface{}{1, 2}, "x")
	require.NoError(t, err)
	require.NoError(t, p.Sample(Args{"x": 1}))
	hits := p.NewHits()
	assert.Len(t, hits, 1)
	assert.Empty(t, p.NewHits())
}

func TestMissingArgIsContractError(t *testing.T) {
	p, err := NewCoverPoint("c.p", []interface{}{1, 2}, "x")
	require.NoError(t, err)
	err = p.Sample(Args{"y": 1})
	assert.ErrorIs(t, err, ErrContract)
}
