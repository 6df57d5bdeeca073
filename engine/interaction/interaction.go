package interaction

import (
	"log"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/game_object"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is what the controller needs from the live scene session.
type Scene interface {
	// Ray returns the camera ray through a point in normalized device coordinates.
	Ray(ndc mgl32.Vec2) common.Ray
	// Pick returns the nearest placed object hit by r.
	Pick(r common.Ray) (game_object.GameObject, bool)
	// Object looks up a placed object by id.
	Object(id string) (game_object.GameObject, bool)
	// SettleObject ends any entrance animation of the object so a gesture can move it.
	SettleObject(id string) bool
}

// Looker is the camera side of the look gesture.
type Looker interface {
	EntranceComplete() bool
	Look(dx, dy float32)
}

// controllerImpl is the implementation of the Controller interface.
type controllerImpl struct {
	scene  Scene
	looker Looker

	state  State
	cursor common.Cursor

	width  int
	height int

	dragPlane   common.Plane
	rotateSpeed float32

	onCommit func(objectID string, pos common.Position)
	onCursor func(common.Cursor)
}

// Controller turns raw pointer events into drag, rotate and look gestures over placed objects.
//
// Presses are ignored until the camera entrance has finished. While one gesture is active,
// presses that would start another are ignored.
type Controller interface {
	// State returns the current gesture.
	//
	// Returns:
	//   - State: Idle, Dragging, Rotating or LookActive
	State() State

	// Cursor returns the cursor affordance last requested.
	Cursor() common.Cursor

	// Resize records the surface size used to convert pointer pixels to NDC.
	//
	// Parameters:
	//   - width, height: surface size in pixels
	Resize(width, height int)

	// PointerDown handles a button press at surface coordinates (x, y).
	//
	// Parameters:
	//   - button: the pressed button
	//   - x, y: pointer position from the surface's top-left corner
	//   - shift: whether a shift key is held
	//
	// Returns:
	//   - bool: true if a gesture started
	PointerDown(button common.MouseButton, x, y float32, shift bool) bool

	// PointerMove handles pointer travel to (x, y).
	PointerMove(x, y float32)

	// PointerUp handles a button release. Releasing a drag commits the object's final position exactly once.
	//
	// Parameters:
	//   - button: the released button
	PointerUp(button common.MouseButton)

	// PointerLeave ends any gesture as if every button had been released.
	PointerLeave()

	// Forget abandons a gesture on objectID without committing, used when the object is removed.
	//
	// Parameters:
	//   - objectID: the removed object
	Forget(objectID string)
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller over scene and looker.
//
// Parameters:
//   - scene: hit testing and object lookup
//   - looker: the camera controller driven by the look gesture
//   - options: variadic list of ControllerBuilderOption functions to configure the Controller
//
// Returns:
//   - Controller: the controller, in Idle
func NewController(scene Scene, looker Looker, options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		scene:       scene,
		looker:      looker,
		state:       Idle{},
		dragPlane:   common.Plane{Normal: mgl32.Vec3{0, 0, 1}, Constant: 0},
		rotateSpeed: 0.01,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controllerImpl) State() State {
	return c.state
}

func (c *controllerImpl) Cursor() common.Cursor {
	return c.cursor
}

func (c *controllerImpl) Resize(width, height int) {
	c.width = width
	c.height = height
}

func (c *controllerImpl) PointerDown(button common.MouseButton, x, y float32, shift bool) bool {
	if _, idle := c.state.(Idle); !idle {
		return false
	}
	if c.looker != nil && !c.looker.EntranceComplete() {
		return false
	}

	pointer := mgl32.Vec2{x, y}
	switch button {
	case common.MouseButtonSecondary:
		c.state = LookActive{LastPointer: pointer}
		c.setCursor(common.CursorCrosshair)
		return true

	case common.MouseButtonPrimary:
		ray := c.scene.Ray(c.ndc(x, y))
		obj, ok := c.scene.Pick(ray)
		if !ok {
			return false
		}
		c.scene.SettleObject(obj.ID())

		if shift {
			pitch, yaw := obj.Rotation()
			c.state = Rotating{ObjectID: obj.ID(), StartPointer: pointer, StartPitch: pitch, StartYaw: yaw}
			c.setCursor(common.CursorMove)
			log.Printf("[Interaction] rotating %s", obj.ID())
			return true
		}

		hit, ok := c.dragPlane.IntersectRay(ray)
		if !ok {
			return false
		}
		c.state = Dragging{ObjectID: obj.ID(), GrabOffset: obj.Position().Sub(hit)}
		c.setCursor(common.CursorGrabbing)
		log.Printf("[Interaction] dragging %s", obj.ID())
		return true
	}
	return false
}

func (c *controllerImpl) PointerMove(x, y float32) {
	pointer := mgl32.Vec2{x, y}

	switch s := c.state.(type) {
	case LookActive:
		if c.looker != nil {
			d := pointer.Sub(s.LastPointer)
			c.looker.Look(d[0], d[1])
		}
		c.state = LookActive{LastPointer: pointer}

	case Dragging:
		obj, ok := c.scene.Object(s.ObjectID)
		if !ok {
			return
		}
		if hit, ok := c.dragPlane.IntersectRay(c.scene.Ray(c.ndc(x, y))); ok {
			obj.SetPosition(hit.Add(s.GrabOffset))
		}

	case Rotating:
		obj, ok := c.scene.Object(s.ObjectID)
		if !ok {
			return
		}
		d := pointer.Sub(s.StartPointer)
		obj.SetRotation(s.StartPitch-d[1]*c.rotateSpeed, s.StartYaw+d[0]*c.rotateSpeed)

	case Idle:
		if _, hit := c.scene.Pick(c.scene.Ray(c.ndc(x, y))); hit {
			c.setCursor(common.CursorGrab)
		} else {
			c.setCursor(common.CursorDefault)
		}
	}
}

func (c *controllerImpl) PointerUp(button common.MouseButton) {
	switch c.state.(type) {
	case LookActive:
		if button != common.MouseButtonSecondary {
			return
		}
		c.finish()
	case Dragging, Rotating:
		c.finish()
	}
}

func (c *controllerImpl) PointerLeave() {
	c.finish()
}

func (c *controllerImpl) Forget(objectID string) {
	switch s := c.state.(type) {
	case Dragging:
		if s.ObjectID == objectID {
			c.reset()
		}
	case Rotating:
		if s.ObjectID == objectID {
			c.reset()
		}
	}
}

// finish ends the active gesture, committing a drag.
func (c *controllerImpl) finish() {
	switch s := c.state.(type) {
	case Idle:
		return
	case Dragging:
		if obj, ok := c.scene.Object(s.ObjectID); ok {
			obj.SetTargetPosition(obj.Position())
			if c.onCommit != nil {
				c.onCommit(s.ObjectID, obj.WirePosition())
			}
		}
	case Rotating:
		if obj, ok := c.scene.Object(s.ObjectID); ok {
			_, yaw := obj.Rotation()
			log.Printf("[Interaction] rotation of %s settled at %.2f rad", s.ObjectID, yaw)
		}
	}
	c.reset()
}

func (c *controllerImpl) reset() {
	c.state = Idle{}
	c.setCursor(common.CursorDefault)
}

func (c *controllerImpl) setCursor(cur common.Cursor) {
	if cur == c.cursor {
		return
	}
	c.cursor = cur
	if c.onCursor != nil {
		c.onCursor(cur)
	}
}

func (c *controllerImpl) ndc(x, y float32) mgl32.Vec2 {
	return common.ScreenToNDC(x, y, c.width, c.height)
}
