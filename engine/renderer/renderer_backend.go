package renderer

import (
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU API a Renderer drives. One backend draws one surface.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and depth target for a new surface size.
	ConfigureSurface(width, height int)

	// SetPresentMode changes the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour the frame is cleared to.
	SetClearColor(c mgl32.Vec4)

	// CreateMesh uploads vertex and index data plus an optional base colour texture.
	//
	// Parameters:
	//   - label: debug label for the GPU objects
	//   - vertexData: interleaved GPUVertex data
	//   - indexData: uint32 indices
	//   - indexCount: number of indices
	//   - tex: the base colour texture, or nil for plain colour
	//
	// Returns:
	//   - graph.Resource: the handle to attach to the mesh and pass to Draw
	//   - error: error if any GPU object could not be created
	CreateMesh(label string, vertexData, indexData []byte, indexCount int, tex *graph.Texture) (graph.Resource, error)

	// WriteFrameUniforms uploads the per-frame camera and light uniforms.
	WriteFrameUniforms(camera, lights []byte)

	// BeginFrame acquires the next surface texture and opens the render pass.
	BeginFrame() error

	// Draw records one indexed draw of mesh with its per-object uniform.
	Draw(mesh graph.Resource, objectData []byte)

	// EndFrame closes the render pass and submits it.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Release destroys every GPU object the backend still owns.
	Release()
}
