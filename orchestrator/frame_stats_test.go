package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameStatsFPS(t *testing.T) {
	s := NewFrameStats()
	s.Record(16 * time.Millisecond)
	assert.InDelta(t, 62.5, s.FPS(), 0.5)
}

func TestFrameStatsAverageFPS(t *testing.T) {
	s := NewFrameStats()
	for i := 0; i < 10; i++ {
		s.Record(10 * time.Millisecond)
	}
	assert.InDelta(t, 100, s.AverageFPS(), 0.5)
}

func TestFrameStatsOnePercentLowReflectsWorstFrames(t *testing.T) {
	s := NewFrameStats()
	for i := 0; i < 99; i++ {
		s.Record(10 * time.Millisecond)
	}
	s.Record(100 * time.Millisecond)

	low := s.OnePercentLow()
	avg := s.AverageFPS()
	assert.Less(t, low, avg, "the 1% low should be dragged down by the single slow frame")
}

func TestFrameStatsEmpty(t *testing.T) {
	s := NewFrameStats()
	assert.Zero(t, s.FPS())
	assert.Zero(t, s.AverageFPS())
	assert.Zero(t, s.OnePercentLow())
}
