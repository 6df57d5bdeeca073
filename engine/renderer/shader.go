package renderer

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-storefront/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// storefrontShaderSource draws every mesh: Lambert shading from the scene's ambient and directional
// lights, or the plain base colour when the object is unlit. Face normals come from screen-space
// derivatives so imported models need no normal attribute.
const storefrontShaderSource = `//@oxy:include camera
//@oxy:include lights
//@oxy:include object

//@oxy:group 0 0 uniform camera camera
//@oxy:group 0 1 uniform lights lights
//@oxy:group 1 0 uniform object object
//@oxy:provider 1 1 texture
@group(1) @binding(1) var base_map: texture_2d<f32>;
//@oxy:provider 1 2 sampler
@group(1) @binding(2) var base_sampler: sampler;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) world: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOut {
    var out: VertexOut;
    let world = object.model * vec4<f32>(position, 1.0);
    out.clip = camera.view_proj * world;
    out.world = world.xyz;
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let texel = textureSample(base_map, base_sampler, in.uv);
    let base = object.color * mix(vec4<f32>(1.0), texel, object.flags.y);

    let n = normalize(cross(dpdx(in.world), dpdy(in.world)));
    let lambert = abs(dot(n, -lights.direction.xyz));
    let lit = lights.ambient.rgb + lights.diffuse.rgb * lambert;

    return vec4<f32>(base.rgb * mix(lit, vec3<f32>(1.0), object.flags.x), base.a);
}
`

// storefrontShader expands the storefront shader and derives its bind group layouts.
//
// Returns:
//   - string: WGSL ready for CreateShaderModule
//   - [][]wgpu.BindGroupLayoutEntry: layout entries indexed by group
//   - error: error if the annotations are invalid
func storefrontShader() (string, [][]wgpu.BindGroupLayoutEntry, error) {
	p := shader.NewPreProcessor(shader.WithStruct("object", shader.Struct{
		Source: GPUObjectUniformSource,
		Type:   "ObjectUniform",
		Size:   objectUniformSize,
	}))
	source, err := p.Process(storefrontShaderSource)
	if err != nil {
		return "", nil, fmt.Errorf("failed to pre-process storefront shader: %w", err)
	}
	groups, err := layoutEntries(p)
	if err != nil {
		return "", nil, err
	}
	return source, groups, nil
}

// layoutEntries turns the declarations of the last Process call into bind group layout entries.
// Groups must be numbered from 0 without gaps.
func layoutEntries(p shader.PreProcessor) ([][]wgpu.BindGroupLayoutEntry, error) {
	var groups [][]wgpu.BindGroupLayoutEntry
	for _, d := range p.Declarations() {
		for len(groups) <= d.Group {
			groups = append(groups, nil)
		}

		entry := wgpu.BindGroupLayoutEntry{Binding: uint32(d.Binding)}
		switch d.Type {
		case shader.AnnotationTypeBindingGroup:
			s, _ := p.Struct(d.Args[2])
			bufferType := wgpu.BufferBindingTypeUniform
			if d.Args[0] == shader.AnnotationArgStorageRead {
				bufferType = wgpu.BufferBindingTypeReadOnlyStorage
			}
			entry.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
			entry.Buffer = wgpu.BufferBindingLayout{Type: bufferType, MinBindingSize: s.Size}
		case shader.AnnotationTypeProvider:
			entry.Visibility = wgpu.ShaderStageFragment
			if d.Args[0] == shader.AnnotationArgTexture {
				entry.Texture = wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				}
			} else {
				entry.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
			}
		}
		groups[d.Group] = append(groups[d.Group], entry)
	}

	for i, entries := range groups {
		if len(entries) == 0 {
			return nil, fmt.Errorf("bind group %d declares no bindings", i)
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].Binding < entries[b].Binding })
	}
	return groups, nil
}
