package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.015625)
	}
	assert.InDelta(t, 15.625, m.FrameTime(), 1e-9)
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 1/64 s frames: the 65th pushes the accumulator past one second.
	for i := 0; i < 65; i++ {
		m.Update(0.015625)
	}
	fps, _ := m.Frame()
	assert.Equal(t, 64.0, fps)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	elapsed := c.Elapsed()
	require.Greater(t, elapsed, 0.0)

	time.Sleep(2 * time.Millisecond)
	c.Update()
	assert.Equal(t, elapsed, c.Elapsed(), "stopped clock must not advance")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}
