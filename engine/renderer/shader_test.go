package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorefrontShaderLayouts(t *testing.T) {
	source, groups, err := storefrontShader()
	require.NoError(t, err)

	assert.Contains(t, source, "struct CameraUniform")
	assert.Contains(t, source, "struct ObjectUniform")
	assert.Contains(t, source, "@group(0) @binding(1) var<uniform> lights: LightUniform;")
	assert.NotContains(t, source, "@oxy:")

	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2)
	assert.Equal(t, uint64(cameraUniformSize), groups[0][0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(lightUniformSize), groups[0][1].Buffer.MinBindingSize)

	require.Len(t, groups[1], 3)
	assert.Equal(t, uint64(objectUniformSize), groups[1][0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureViewDimension2D, groups[1][1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, groups[1][2].Sampler.Type)
}

func TestLayoutEntriesRejectsGaps(t *testing.T) {
	p := shader.NewPreProcessor()
	_, err := p.Process("//@oxy:include camera\n//@oxy:group 1 0 uniform camera camera\n")
	require.NoError(t, err)

	_, err = layoutEntries(p)
	assert.ErrorContains(t, err, "bind group 0")
}
