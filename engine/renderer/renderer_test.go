package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/engine/camera"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"
	"github.com/Carmen-Shannon/oxy-storefront/engine/light"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	label    string
	releases int
}

func (h *fakeHandle) Release() { h.releases++ }

type fakeBackend struct {
	created    []*fakeHandle
	draws      []string
	frames     int
	configured [][2]int
	clear      mgl32.Vec4
	beginErr   error
	released   bool
	lastObject []byte
}

func (b *fakeBackend) ConfigureSurface(w, h int)       { b.configured = append(b.configured, [2]int{w, h}) }
func (b *fakeBackend) SetPresentMode(PresentMode)      {}
func (b *fakeBackend) SetClearColor(c mgl32.Vec4)      { b.clear = c }
func (b *fakeBackend) WriteFrameUniforms(_, _ []byte)  {}
func (b *fakeBackend) EndFrame()                       {}
func (b *fakeBackend) Present()                        { b.frames++ }
func (b *fakeBackend) Release()                        { b.released = true }
func (b *fakeBackend) BeginFrame() error               { return b.beginErr }
func (b *fakeBackend) Draw(m graph.Resource, o []byte) { b.draws = append(b.draws, m.(*fakeHandle).label); b.lastObject = o }

func (b *fakeBackend) CreateMesh(label string, _, _ []byte, _ int, _ *graph.Texture) (graph.Resource, error) {
	h := &fakeHandle{label: label}
	b.created = append(b.created, h)
	return h, nil
}

func newTestRenderer() (Renderer, *fakeBackend) {
	b := &fakeBackend{}
	return NewRenderer(BackendTypeWGPU, nil, WithBackend(b), WithClearColor(mgl32.Vec4{0.96, 0.96, 0.96, 1})), b
}

func boxNode(name string) *graph.Node {
	n := graph.NewNode(name)
	n.Mesh = graph.NewMesh(graph.NewBox(1, 1, 1), graph.Material{Color: mgl32.Vec4{1, 1, 1, 1}})
	return n
}

func TestRenderUploadsOnceAndDrawsVisibleMeshes(t *testing.T) {
	r, b := newTestRenderer()
	assert.InDelta(t, 0.96, b.clear[0], 1e-6)

	root := graph.NewNode("root")
	a, hidden := boxNode("a"), boxNode("hidden")
	hidden.Visible = false
	root.Add(a)
	root.Add(hidden)

	cam := camera.NewCamera()
	require.NoError(t, r.Render(root, cam, light.NewStorefrontRig()))
	require.NoError(t, r.Render(root, cam, light.NewStorefrontRig()))

	assert.Len(t, b.created, 1)
	assert.Equal(t, []string{"a", "a"}, b.draws)
	assert.Equal(t, 2, b.frames)
	assert.Equal(t, 1, r.Uploaded())
	assert.Len(t, a.Mesh.Resources(), 1)
	assert.Len(t, b.lastObject, 96)
}

func TestDisposedMeshesArePruned(t *testing.T) {
	r, b := newTestRenderer()
	root := graph.NewNode("root")
	a := boxNode("a")
	root.Add(a)

	require.NoError(t, r.Render(root, camera.NewCamera(), light.NewStorefrontRig()))
	root.Remove(a)
	a.Dispose()

	assert.Equal(t, 1, b.created[0].releases)
	require.NoError(t, r.Render(root, camera.NewCamera(), light.NewStorefrontRig()))
	assert.Zero(t, r.Uploaded())
}

func TestBeginFrameFailureIsReported(t *testing.T) {
	r, b := newTestRenderer()
	b.beginErr = errors.New("surface lost")

	err := r.Render(graph.NewNode("root"), camera.NewCamera(), light.NewStorefrontRig())
	assert.ErrorIs(t, err, b.beginErr)
}

func TestReleaseFreesEverythingOnce(t *testing.T) {
	r, b := newTestRenderer()
	root := graph.NewNode("root")
	root.Add(boxNode("a"))
	require.NoError(t, r.Render(root, camera.NewCamera(), light.NewStorefrontRig()))

	r.Release()
	r.Release()
	assert.True(t, b.released)
	assert.Equal(t, 1, b.created[0].releases)
	assert.NoError(t, r.Render(root, camera.NewCamera(), light.NewStorefrontRig()))
	assert.Equal(t, 1, b.frames, "no frames after release")
}

func TestResizeIgnoresEmptySurface(t *testing.T) {
	r, b := newTestRenderer()
	r.Resize(0, 600)
	r.Resize(800, 600)
	assert.Equal(t, [][2]int{{800, 600}}, b.configured)
}

func TestPackGeometryGeneratesIndices(t *testing.T) {
	g := graph.NewGeometry([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, nil)
	vertices, indices, count := packGeometry(g)
	assert.Len(t, vertices, 3*20)
	assert.Len(t, indices, 3*4)
	assert.Equal(t, 3, count)
}

func TestObjectUniformFlags(t *testing.T) {
	m := graph.NewMesh(graph.NewPlane(16, 9), graph.Material{Unlit: true, Map: &graph.Texture{Width: 1, Height: 1}})
	u := newObjectUniform(mgl32.Ident4(), m)
	assert.Equal(t, [4]float32{1, 1, 0, 0}, u.Flags)
	assert.Equal(t, 96, u.Size())
}
