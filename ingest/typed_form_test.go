package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypedFormFillsDefaults(t *testing.T) {
	data := TypedGraphData{NodeCount: 2, EdgeCount: 1, EdgePairs: []int32{0, 1}}
	out, err := ParseTypedForm(data, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, out.NodeIds, 2)
	require.Len(t, out.EdgeSpecs, 1)
	assert.Equal(t, "n0", out.NodeIds[0])
	assert.Equal(t, "e0", out.EdgeIds[0])
	assert.Equal(t, out.NodeIds[0], out.EdgeSpecs[0].Source)
	assert.Equal(t, out.NodeIds[1], out.EdgeSpecs[0].Target)
}

func TestParseTypedFormRejectsOmittedEdgePairs(t *testing.T) {
	// EdgeCount > 0 but EdgePairs left nil: must fail validation rather
	// than panic indexing an empty slice.
	data := TypedGraphData{NodeCount: 2, EdgeCount: 1}
	_, err := ParseTypedForm(data, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidGraphData)
}

func TestParseTypedFormRejectsEdgePairsLengthMismatch(t *testing.T) {
	data := TypedGraphData{NodeCount: 3, EdgeCount: 2, EdgePairs: []int32{0, 1}}
	_, err := ParseTypedForm(data, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidGraphData)
}

func TestParseTypedFormRejectsPositionsLengthMismatch(t *testing.T) {
	data := TypedGraphData{NodeCount: 2, Positions: []float32{0, 0, 1}}
	_, err := ParseTypedForm(data, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidGraphData)
}

func TestParseTypedFormDropsUnknownEndpointsWhenReferencesNotValidated(t *testing.T) {
	data := TypedGraphData{NodeCount: 2, EdgeCount: 1, EdgePairs: []int32{0, 5}}
	out, err := ParseTypedForm(data, Options{ValidateReferences: false})
	require.NoError(t, err)
	assert.Empty(t, out.EdgeSpecs)
}

func TestParseTypedFormRejectsUnknownEndpointsByDefault(t *testing.T) {
	data := TypedGraphData{NodeCount: 2, EdgeCount: 1, EdgePairs: []int32{0, 5}}
	_, err := ParseTypedForm(data, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidGraphData)
}
