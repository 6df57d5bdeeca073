package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	position mgl32.Vec3

	viewMatrix            mgl32.Mat4
	projectionMatrix      mgl32.Mat4
	viewProjectionMatrix  mgl32.Mat4
	inverseViewProjMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the perspective camera.
// The camera holds projection settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Position returns the camera position used for the last Update.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (OpenGL clip space, z in [-1, 1]).
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() mgl32.Mat4

	// Ray builds a world-space picking ray through a point in normalized device coordinates.
	//
	// Parameters:
	//   - ndc: the pointer in NDC, both axes in [-1, 1]
	//
	// Returns:
	//   - common.Ray: a ray starting at the camera position
	Ray(ndc mgl32.Vec2) common.Ray

	// Uniform packs the camera for GPU upload with depth remapped to [0, 1].
	Uniform() GPUCameraUniform

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// SetController attaches a CameraController to the camera.
	SetController(ctrl CameraController)

	// Update reads the pose from the controller and recomputes matrices.
	// Called once per tick after the controller has advanced.
	Update()

	// SetAspect sets the aspect ratio and recomputes matrices. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the storefront perspective: 75° vertical fov, near 0.1, far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    mgl32.DegToRad(75),
		aspect: 1,
		near:   0.1,
		far:    1000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Ray(ndc mgl32.Vec2) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	nearPoint := c.inverseViewProjMatrix.Mul4x1(mgl32.Vec4{ndc[0], ndc[1], -1, 1})
	farPoint := c.inverseViewProjMatrix.Mul4x1(mgl32.Vec4{ndc[0], ndc[1], 1, 1})
	n := nearPoint.Vec3().Mul(1 / nearPoint[3])
	f := farPoint.Vec3().Mul(1 / farPoint[3])

	return common.Ray{Origin: c.position, Direction: f.Sub(n).Normalize()}
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       depthRemap.Mul4(c.viewProjectionMatrix),
		CameraPosition: [3]float32(c.position),
	}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices from the controller pose.
// Without a controller the camera sits at the origin looking down -Z. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	var yaw, pitch float32
	if c.controller != nil {
		c.position = c.controller.Position()
		yaw, pitch = c.controller.Orientation()
	}

	world := mgl32.Translate3D(c.position[0], c.position[1], c.position[2]).
		Mul4(common.YawPitchRotation(yaw, pitch))
	c.viewMatrix = world.Inv()
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjMatrix = c.viewProjectionMatrix.Inv()
}
