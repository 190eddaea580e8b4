package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []Point {
	return []Point{
		{Slot: 0, X: 0, Y: 0, Radius: 5},
		{Slot: 1, X: 100, Y: 100, Radius: 5},
		{Slot: 2, X: 100.1, Y: 100.1, Radius: 5},
	}
}

func TestGridIndexNearest(t *testing.T) {
	idx := NewGridIndex(50)
	idx.Rebuild(samplePoints())

	p, ok := idx.Nearest(1, 1, 10)
	require.True(t, ok)
	assert.Equal(t, int32(0), p.Slot)
}

func TestGridIndexNoMatchBeyondRadius(t *testing.T) {
	idx := NewGridIndex(50)
	idx.Rebuild(samplePoints())
	_, ok := idx.Nearest(1000, 1000, 10)
	assert.False(t, ok)
}

func TestBruteForceHitTestAgreesWithGridIndex(t *testing.T) {
	points := samplePoints()
	idx := NewGridIndex(50)
	idx.Rebuild(points)

	gridResult, gridOK := idx.Nearest(100, 100, 1)
	bruteResult, bruteOK := BruteForceHitTest(points, 100, 100, 1)

	require.Equal(t, gridOK, bruteOK)
	assert.Equal(t, gridResult.Slot, bruteResult.Slot)
}

func TestBruteForceHitTestEmpty(t *testing.T) {
	_, ok := BruteForceHitTest(nil, 0, 0, 10)
	assert.False(t, ok)
}
