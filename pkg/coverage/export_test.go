package coverage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleRegistry(t *testing.T) (*Registry, *CoverPoint) {
	t.Helper()
	db := newDB()
	p, err := NewCoverPoint("top.x", []interface{}{0, 1, 2}, "v")
	require.NoError(t, err)
	require.NoError(t, db.Add(p))
	require.NoError(t, p.Sample(Args{"v": 0}))
	require.NoError(t, p.Sample(Args{"v": 1}))
	return db, p
}

func TestExportImportRoundTripXML(t *testing.T) {
	db, p := buildSampleRegistry(t)
	var buf bytes.Buffer
	require.NoError(t, db.Export(FormatXML, &buf))

	fresh := newDB()
	p2, err := NewCoverPoint("top.x", []interface{}{0, 1, 2}, "v")
	require.NoError(t, err)
	require.NoError(t, fresh.Add(p2))

	require.NoError(t, fresh.ImportAndMerge(FormatXML, bytes.NewReader(buf.Bytes())))
	assert.Equal(t, p.DetailedCoverage(), p2.DetailedCoverage())
	assert.InDelta(t, p.CoverPercentage(), p2.CoverPercentage(), 0.0001)
}

func TestExportImportRoundTripYAML(t *testing.T) {
	db, p := buildSampleRegistry(t)
	var buf bytes.Buffer
	require.NoError(t, db.Export(FormatYAML, &buf))

	fresh := newDB()
	p2, err := NewCoverPoint("top.x", []interface{}{0, 1, 2}, "v")
	require.NoError(t, err)
	require.NoError(t, fresh.Add(p2))

	require.NoError(t, fresh.ImportAndMerge(FormatYAML, bytes.NewReader(buf.Bytes())))
	assert.Equal(t, p.DetailedCoverage(), p2.DetailedCoverage())
}

func TestMergeRejectsStructuralMismatch(t *testing.T) {
	db, _ := buildSampleRegistry(t)
	var buf bytes.Buffer
	require.NoError(t, db.Export(FormatXML, &buf))

	fresh := newDB()
	p2, err := NewCoverPoint("top.x", []interface{}{0, 1}, "v") // different bin count
	require.NoError(t, err)
	require.NoError(t, fresh.Add(p2))

	err = fresh.ImportAndMerge(FormatXML, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrMergeMismatch)
}

func TestExportUnknownFormat(t *testing.T) {
	db, _ := buildSampleRegistry(t)
	var buf bytes.Buffer
	err := db.Export(Format("json"), &buf)
	assert.ErrorIs(t, err, ErrExportFormat)
}
