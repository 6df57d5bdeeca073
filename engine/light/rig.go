package light

import (
	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

// GPULightUniformSource is the WGSL definition matching Uniform.
const GPULightUniformSource = `struct LightUniform {
    ambient: vec4<f32>,
    direction: vec4<f32>,
    diffuse: vec4<f32>,
};`

// Uniform is the GPU layout of a Rig: three vec4s, 16-byte aligned.
type Uniform struct {
	Ambient   [4]float32 // rgb radiance, w unused
	Direction [4]float32 // xyz direction toward the scene, w unused
	Diffuse   [4]float32 // rgb radiance, w unused
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
func (u Uniform) Marshal() []byte {
	return common.SliceToBytes([]Uniform{u})
}

// Rig is the fixed lighting of a storefront scene: one ambient light and one directional light.
type Rig struct {
	Ambient     Light
	Directional Light
}

// NewStorefrontRig returns ambient white at 0.5 plus a white directional light shining from (10, 10, 5).
func NewStorefrontRig() Rig {
	return Rig{
		Ambient:     NewLight(LightTypeAmbient, WithIntensity(0.5)),
		Directional: NewLight(LightTypeDirectional, WithSourcePosition(mgl32.Vec3{10, 10, 5}), WithIntensity(1)),
	}
}

// Uniform packs the rig for upload. Missing lights contribute nothing.
func (r Rig) Uniform() Uniform {
	var u Uniform
	if r.Ambient != nil {
		a := r.Ambient.Radiance()
		u.Ambient = [4]float32{a[0], a[1], a[2], 0}
	}
	if r.Directional != nil {
		d := r.Directional.Direction()
		c := r.Directional.Radiance()
		u.Direction = [4]float32{d[0], d[1], d[2], 0}
		u.Diffuse = [4]float32{c[0], c[1], c[2], 0}
	}
	return u
}
