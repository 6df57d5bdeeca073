package camera

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freeFlying returns a controller that has already finished a zero-length entrance at start.
func freeFlying(t *testing.T, start mgl32.Vec3, opts ...CameraControllerOption) CameraController {
	t.Helper()
	cc := NewCameraController(append([]CameraControllerOption{WithEntrance(start, start, 0)}, opts...)...)
	cc.Update(time.Now())
	require.True(t, cc.EntranceComplete())
	return cc
}

func TestEntranceEndpoints(t *testing.T) {
	cc := NewCameraController()
	t0 := time.Unix(1000, 0)

	cc.Update(t0)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 35}, cc.Position())
	assert.False(t, cc.EntranceComplete())

	cc.Update(t0.Add(1250 * time.Millisecond))
	mid := cc.Position()
	// Cubic ease-out at half time covers 87.5% of the path.
	assert.InDelta(t, 35-23*0.875, mid[2], 1e-3)

	cc.Update(t0.Add(2500 * time.Millisecond))
	assert.Equal(t, mgl32.Vec3{0, 0.5, 12}, cc.Position())
	assert.True(t, cc.EntranceComplete())
	assert.IsType(t, FreeFlight{}, cc.State())
}

func TestEntranceCompletesOnceAndNeverReturns(t *testing.T) {
	cc := NewCameraController(WithEntrance(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 5}, time.Second))
	calls := 0
	cc.OnEntranceComplete(func() { calls++ })

	t0 := time.Unix(0, 0).Add(time.Hour)
	cc.Update(t0)
	cc.Update(t0.Add(5 * time.Second))
	cc.Update(t0.Add(10 * time.Second))

	assert.Equal(t, 1, calls)
	assert.IsType(t, FreeFlight{}, cc.State())
}

func TestKeysIgnoredDuringEntrance(t *testing.T) {
	cc := NewCameraController()
	cc.Update(time.Now())
	assert.False(t, cc.KeyDown(common.KeyW))

	ff := freeFlying(t, mgl32.Vec3{0, 1, 20})
	assert.True(t, ff.KeyDown(common.KeyW))
	assert.False(t, ff.KeyDown(common.KeySpace), "non-movement keys are not tracked")
}

func TestForwardKeyMovesTowardBackdrop(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 1, 20})
	cc.KeyDown(common.KeyW)
	now := time.Now()

	cc.Update(now)
	v := cc.Velocity()
	assert.InDelta(t, -0.03, v[2], 1e-5, "first tick blends 30% toward -moveSpeed")
	assert.InDelta(t, 19.97, cc.Position()[2], 1e-4)

	for range 50 {
		cc.Update(now)
	}
	assert.InDelta(t, -0.1, cc.Velocity()[2], 1e-3)
}

func TestDiagonalInputIsNormalized(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 1, 20})
	cc.KeyDown(common.KeyW)
	cc.KeyDown(common.KeyD)
	for range 100 {
		cc.Update(time.Now())
	}
	assert.InDelta(t, 0.1, cc.Velocity().Len(), 1e-3)
}

func TestFrictionDecaysVelocity(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 1, 20})
	cc.KeyDown(common.KeyE)
	cc.Update(time.Now())
	before := cc.Velocity()[1]

	cc.KeyUp(common.KeyE)
	cc.Update(time.Now())
	assert.InDelta(t, before*0.8, cc.Velocity()[1], 1e-6)
}

func TestPositionClampedToBounds(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 0.2, 2})
	cc.KeyDown(common.KeyW)
	cc.KeyDown(common.KeyQ)
	for range 200 {
		cc.Update(time.Now())
	}
	p := cc.Position()
	assert.Equal(t, float32(2), p[2])
	assert.Equal(t, float32(0.2), p[1])
}

func TestLookClampsPitchAndIgnoresEntrance(t *testing.T) {
	entering := NewCameraController()
	entering.Look(100, 100)
	yaw, pitch := entering.Orientation()
	assert.Zero(t, yaw)
	assert.Zero(t, pitch)

	cc := freeFlying(t, mgl32.Vec3{0, 1, 20})
	cc.Look(100, 0)
	yaw, _ = cc.Orientation()
	assert.InDelta(t, -0.2, yaw, 1e-6)

	cc.Look(0, -10000)
	_, pitch = cc.Orientation()
	assert.Equal(t, math32.Pi/2, pitch)
}

func TestReleaseKeysStopsAcceleration(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 1, 20})
	cc.KeyDown(common.KeyA)
	cc.ReleaseKeys()
	cc.Update(time.Now())
	assert.Equal(t, mgl32.Vec3{}, cc.Velocity())
}

func TestCameraRayThroughCentreLooksDownNegativeZ(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 0.5, 12})
	cam := NewCamera(WithController(cc), WithAspect(16.0/9.0))
	cam.Update()

	r := cam.Ray(mgl32.Vec2{0, 0})
	assert.Equal(t, mgl32.Vec3{0, 0.5, 12}, r.Origin)
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4))

	right := cam.Ray(mgl32.Vec2{1, 0})
	assert.Greater(t, right.Direction[0], float32(0))
}

func TestCameraFollowsYaw(t *testing.T) {
	cc := freeFlying(t, mgl32.Vec3{0, 1, 10})
	cam := NewCamera(WithController(cc))

	// Looking left by a quarter turn faces -X.
	cc.Look(-(math32.Pi/2)/0.002, 0)
	cam.Update()
	r := cam.Ray(mgl32.Vec2{0, 0})
	assert.True(t, r.Direction.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-3), "got %v", r.Direction)
}

func TestSetAspectIgnoresDegenerateSizes(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	cam.SetAspect(0)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.InDelta(t, mgl32.DegToRad(75), cam.Fov(), 1e-6)
}

func TestUniformSize(t *testing.T) {
	u := NewCamera().Uniform()
	assert.Equal(t, 80, u.Size())
	assert.Len(t, u.Marshal(), 80)
}
