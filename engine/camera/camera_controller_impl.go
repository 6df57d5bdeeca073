package camera

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	state    CameraState
	position mgl32.Vec3
	held     map[uint32]struct{}

	// Free-flight tuning
	moveSpeed        float32
	blend            float32
	friction         float32
	lookSensitivity  float32
	boundsMin        mgl32.Vec3
	boundsMax        mgl32.Vec3
	onEntranceFinish []func()
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller that enters from (0, 0.5, 35) to (0, 0.5, 12) over 2.5s
// and then flies freely inside x∈[-15, 15], y∈[0.2, 8], z∈[2, 35].
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:   &sync.Mutex{},
		held: make(map[uint32]struct{}),
		state: Entering{
			Start:    mgl32.Vec3{0, 0.5, 35},
			End:      mgl32.Vec3{0, 0.5, 12},
			Duration: 2500 * time.Millisecond,
		},

		moveSpeed:       0.1,
		blend:           0.3,
		friction:        0.8,
		lookSensitivity: 0.002,
		boundsMin:       mgl32.Vec3{-15, 0.2, 2},
		boundsMax:       mgl32.Vec3{15, 8, 35},
	}

	for _, option := range options {
		option(cc)
	}

	if s, ok := cc.state.(Entering); ok {
		cc.position = s.Start
	}
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Orientation() (yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if ff, ok := cc.state.(FreeFlight); ok {
		return ff.Yaw, ff.Pitch
	}
	return 0, 0
}

func (cc *cameraControllerImpl) Velocity() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if ff, ok := cc.state.(FreeFlight); ok {
		return ff.Velocity
	}
	return mgl32.Vec3{}
}

func (cc *cameraControllerImpl) State() CameraState {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state
}

func (cc *cameraControllerImpl) EntranceComplete() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, ok := cc.state.(FreeFlight)
	return ok
}

func (cc *cameraControllerImpl) OnEntranceComplete(fn func()) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.onEntranceFinish = append(cc.onEntranceFinish, fn)
}

func (cc *cameraControllerImpl) Update(now time.Time) {
	cc.mu.Lock()
	var finished []func()
	switch s := cc.state.(type) {
	case Entering:
		finished = cc.advanceEntrance(s, now)
	case FreeFlight:
		cc.state = cc.advanceFreeFlight(s)
	}
	cc.mu.Unlock()

	for _, fn := range finished {
		fn()
	}
}

func (cc *cameraControllerImpl) KeyDown(key uint32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if _, ok := cc.state.(FreeFlight); !ok || !common.IsMovementKey(key) {
		return false
	}
	cc.held[key] = struct{}{}
	return true
}

func (cc *cameraControllerImpl) KeyUp(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, key)
}

func (cc *cameraControllerImpl) ReleaseKeys() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	clear(cc.held)
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	ff, ok := cc.state.(FreeFlight)
	if !ok {
		return
	}
	ff.Yaw -= dx * cc.lookSensitivity
	ff.Pitch = mgl32.Clamp(ff.Pitch-dy*cc.lookSensitivity, -math32.Pi/2, math32.Pi/2)
	cc.state = ff
}

// --- internal helpers ---

// advanceEntrance interpolates toward the entrance end pose and switches to FreeFlight at completion.
// Returns the completion callbacks to run once the mutex is released. Caller must hold the mutex.
func (cc *cameraControllerImpl) advanceEntrance(s Entering, now time.Time) []func() {
	if s.StartTime.IsZero() {
		s.StartTime = now
		cc.state = s
	}

	p := s.Progress(now)
	cc.position = common.LerpVec3(s.Start, s.End, common.EaseOutCubic(p))
	if p < 1 {
		return nil
	}

	cc.position = s.End
	cc.state = FreeFlight{}
	finished := cc.onEntranceFinish
	cc.onEntranceFinish = nil
	return finished
}

// advanceFreeFlight applies one tick of the movement model and returns the new state.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) advanceFreeFlight(s FreeFlight) FreeFlight {
	forward, right := common.HorizontalBasis(s.Yaw)

	var acc mgl32.Vec3
	for key := range cc.held {
		switch key {
		case common.KeyW:
			acc = acc.Sub(forward)
		case common.KeyS:
			acc = acc.Add(forward)
		case common.KeyA:
			acc = acc.Sub(right)
		case common.KeyD:
			acc = acc.Add(right)
		case common.KeyQ:
			acc[1]--
		case common.KeyE:
			acc[1]++
		}
	}

	if len(cc.held) > 0 {
		if acc.Len() > 0 {
			acc = acc.Normalize()
		}
		s.Velocity = common.LerpVec3(s.Velocity, acc.Mul(cc.moveSpeed), cc.blend)
	} else {
		s.Velocity = s.Velocity.Mul(cc.friction)
	}

	cc.position = common.ClampVec3(cc.position.Add(s.Velocity), cc.boundsMin, cc.boundsMax)
	return s
}
