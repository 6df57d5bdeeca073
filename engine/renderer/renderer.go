package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-storefront/engine/camera"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"
	"github.com/Carmen-Shannon/oxy-storefront/engine/light"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Surface is what a Renderer needs from the window it draws into.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	clearColor mgl32.Vec4

	// meshes maps every mesh uploaded so far to its GPU handle.
	meshes map[*graph.Mesh]graph.Resource

	released bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws a scene graph through a camera with the storefront lighting.
//
// Meshes are uploaded the first time they are drawn. The GPU handle is attached to the mesh,
// so disposing a node releases its buffers without the renderer's involvement.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetClearColor sets the colour behind all geometry.
	SetClearColor(c mgl32.Vec4)

	// Render draws one frame of every visible mesh under root.
	//
	// Parameters:
	//   - root: the scene root
	//   - cam: the viewing camera
	//   - lights: the scene lights
	//
	// Returns:
	//   - error: error if the frame could not be acquired or a mesh could not be uploaded
	Render(root *graph.Node, cam camera.Camera, lights light.Rig) error

	// Uploaded returns the number of meshes currently holding GPU resources.
	Uploaded() int

	// Release frees every GPU resource. The renderer draws nothing afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given surface.
//
// Parameters:
//   - backendType: the GPU backend to create when no backend is injected
//   - surface: the window to draw into; may be nil when WithBackend supplies a backend
//   - options: a variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new Renderer
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  mgl32.Vec4{1, 1, 1, 1},
		meshes:      make(map[*graph.Mesh]graph.Resource),
	}

	for _, option := range options {
		option(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			sampleCount := MSAA4x
			if r.pendingMSAA != nil {
				sampleCount = *r.pendingMSAA
			}
			r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, sampleCount)
		default:
			panic(fmt.Sprintf("unsupported renderer backend type: %d", backendType))
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)
	if surface != nil {
		r.backend.ConfigureSurface(surface.Width(), surface.Height())
	}

	return r
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released || width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetClearColor(c mgl32.Vec4) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearColor = c
	if !r.released {
		r.backend.SetClearColor(c)
	}
}

func (r *renderer) Uploaded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meshes)
}

func (r *renderer) Render(root *graph.Node, cam camera.Camera, lights light.Rig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return nil
	}

	r.prune()

	var batch []drawItem
	collectDraws(root, mgl32.Ident4(), &batch)

	for _, item := range batch {
		if _, ok := r.meshes[item.mesh]; ok {
			continue
		}
		vertexData, indexData, indexCount := packGeometry(item.mesh.Geometry)
		handle, err := r.backend.CreateMesh(item.label, vertexData, indexData, indexCount, item.mesh.Material.Map)
		if err != nil {
			return fmt.Errorf("failed to upload mesh %q: %w", item.label, err)
		}
		item.mesh.Attach(handle)
		r.meshes[item.mesh] = handle
	}

	camUniform := cam.Uniform()
	lightUniform := lights.Uniform()
	r.backend.WriteFrameUniforms(camUniform.Marshal(), lightUniform.Marshal())

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	for _, item := range batch {
		obj := newObjectUniform(item.world, item.mesh)
		r.backend.Draw(r.meshes[item.mesh], obj.Marshal())
	}
	r.backend.EndFrame()
	r.backend.Present()

	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	for m, handle := range r.meshes {
		handle.Release()
		delete(r.meshes, m)
	}
	r.backend.Release()
	log.Printf("[Renderer] released")
}

// prune forgets meshes whose owners already disposed them.
func (r *renderer) prune() {
	for m := range r.meshes {
		if m.Disposed() {
			delete(r.meshes, m)
		}
	}
}

// drawItem is one mesh instance queued for the current frame.
type drawItem struct {
	mesh  *graph.Mesh
	world mgl32.Mat4
	label string
}

// collectDraws walks the visible part of the tree and records every live mesh with its world matrix.
func collectDraws(n *graph.Node, parent mgl32.Mat4, out *[]drawItem) {
	if n == nil || !n.Visible {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.Mesh != nil && !n.Mesh.Disposed() && n.Mesh.Geometry != nil && len(n.Mesh.Geometry.Positions) > 0 {
		*out = append(*out, drawItem{mesh: n.Mesh, world: world, label: n.Name})
	}
	for _, c := range n.Children() {
		collectDraws(c, world, out)
	}
}
