package animation

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
)

// Transformable is anything an entrance can move and scale.
type Transformable interface {
	SetPosition(p mgl32.Vec3)
	SetScale(s mgl32.Vec3)
}

// entranceImpl flies an object in from a spawn point while growing it to its target scale.
type entranceImpl struct {
	mu sync.Mutex

	target Transformable

	from       mgl32.Vec3
	to         mgl32.Vec3
	startScale mgl32.Vec3
	endScale   mgl32.Vec3

	start    time.Time
	delay    time.Duration
	duration time.Duration

	onComplete func()
	cancelled  bool
	done       bool
}

var _ Animation = &entranceImpl{}

// NewEntrance creates an entrance animation for target ending at the given position and scale.
// Until its delay elapses the target is held at the spawn pose.
//
// Parameters:
//   - target: the object to move
//   - to: the final position
//   - endScale: the final scale
//   - start: the reference time the delay counts from, usually when the model finished loading
//   - options: functional options to configure the entrance
//
// Returns:
//   - Animation: the entrance
func NewEntrance(target Transformable, to, endScale mgl32.Vec3, start time.Time, options ...EntranceBuilderOption) Animation {
	e := &entranceImpl{
		target:     target,
		from:       mgl32.Vec3{-5, -5, 0},
		to:         to,
		startScale: mgl32.Vec3{0.1, 0.1, 0.1},
		endScale:   endScale,
		start:      start,
		duration:   1000 * time.Millisecond,
	}
	for _, option := range options {
		option(e)
	}
	e.apply(0)
	return e
}

func (e *entranceImpl) Update(now time.Time) bool {
	e.mu.Lock()
	if e.cancelled || e.done {
		e.mu.Unlock()
		return true
	}

	elapsed := now.Sub(e.start) - e.delay
	if elapsed < 0 {
		e.mu.Unlock()
		return false
	}

	var p float32 = 1
	if e.duration > 0 {
		p = mgl32.Clamp(float32(elapsed)/float32(e.duration), 0, 1)
	}
	e.apply(common.EaseOutCubic(p))

	var onComplete func()
	if p >= 1 {
		e.done = true
		onComplete = e.onComplete
	}
	e.mu.Unlock()

	if onComplete != nil {
		onComplete()
	}
	return e.done
}

func (e *entranceImpl) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelled = true
}

// apply writes the pose at eased progress t to the target.
func (e *entranceImpl) apply(t float32) {
	e.target.SetPosition(common.LerpVec3(e.from, e.to, t))
	e.target.SetScale(common.LerpVec3(e.startScale, e.endScale, t))
}
