package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/fieldscope/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests only touch code paths that need no GL context.

func TestGLMode(t *testing.T) {
	mode, err := glMode(renderer.DrawModePoints)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.POINTS), mode)

	mode, err = glMode(renderer.DrawModeTriangles)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.TRIANGLES), mode)

	_, err = glMode(renderer.DrawMode(42))
	assert.Error(t, err)
}

func TestAttributeCount(t *testing.T) {
	p := &program{name: "test", lengths: map[string]int{}}
	n, err := p.count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	p.lengths["a_position"] = 12
	p.lengths["a_vector"] = 12
	n, err = p.count()
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	p.lengths["a_vector"] = 11
	_, err = p.count()
	assert.Error(t, err)
}

func TestTrimInfoLog(t *testing.T) {
	assert.Equal(t, "ERROR: 0:1: oops", trimInfoLog("ERROR: 0:1: oops\n\x00\x00"))
	assert.Equal(t, "vertex", stageName(gl.VERTEX_SHADER))
	assert.Equal(t, "unknown", stageName(0))
}
