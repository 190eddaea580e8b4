package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShaderSourcesDeclareExpectedEntryPoints(t *testing.T) {
	assert.True(t, strings.Contains(nodeShaderSource, "fn vs_main"))
	assert.True(t, strings.Contains(nodeShaderSource, "fn fs_main"))
	assert.True(t, strings.Contains(edgeShaderSource, "fn vs_main"))
	assert.True(t, strings.Contains(edgeShaderSource, "fn fs_main"))
}
