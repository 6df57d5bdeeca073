package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id       string
	modelURL string
	enabled  atomic.Bool
	entered  atomic.Bool

	// group is the tagged root that the session moves, rotates and scales. The model clone hangs below it.
	group *graph.Node
	model *graph.Node

	targetPosition mgl32.Vec3
	targetScale    float32
}

// GameObject is one placed instance of a model in a storefront scene.
//
// Its transform lives on a group node tagged with the object id, so hit tests against any
// mesh of the model resolve back to the object. Rotation is a local visual adjustment only.
type GameObject interface {
	// ID returns the object's stable identifier from the scene configuration.
	//
	// Returns:
	//   - string: the object ID
	ID() string

	// ModelURL returns the URL of the model this object instances.
	ModelURL() string

	// Node returns the tagged group node to add to the scene graph.
	//
	// Returns:
	//   - *graph.Node: the object's root node
	Node() *graph.Node

	// Model returns the attached model clone, or nil before Attach.
	Model() *graph.Node

	// Attach places a model subtree under the object's group node, replacing and disposing any previous one.
	// The caller passes a clone it owns; the cached original must never be attached directly.
	//
	// Parameters:
	//   - model: the cloned model graph
	Attach(model *graph.Node)

	// Enabled returns whether this object is drawn and hit-testable.
	Enabled() bool

	// SetEnabled shows or hides the object.
	SetEnabled(enabled bool)

	// Position returns the current position of the object.
	//
	// Returns:
	//   - mgl32.Vec3: position in scene space
	Position() mgl32.Vec3

	// SetPosition moves the object.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// WirePosition returns the position in its wire form.
	WirePosition() common.Position

	// Rotation returns the object's pitch (around X) and yaw (around Y) in radians.
	Rotation() (pitch, yaw float32)

	// SetRotation sets pitch and yaw in radians.
	SetRotation(pitch, yaw float32)

	// Scale returns the current per-axis scale.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	SetScale(s mgl32.Vec3)

	// TargetPosition returns the configured resting position.
	TargetPosition() mgl32.Vec3

	// SetTargetPosition records a new configured resting position without moving the object.
	SetTargetPosition(p mgl32.Vec3)

	// TargetScale returns the configured uniform size.
	TargetScale() float32

	// EntranceComplete reports whether the object has finished (or skipped) its entrance animation.
	EntranceComplete() bool

	// MarkEntranceComplete records that the entrance animation is over.
	MarkEntranceComplete()

	// Bounds returns the world-space bounding box of the attached model.
	Bounds() common.Box

	// Dispose detaches the object from its parent and releases every mesh resource below it.
	Dispose()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject with any provided options applied.
// The group node starts at the target position with the target scale; entrance animations overwrite both.
//
// Parameters:
//   - id: stable identifier from the scene configuration
//   - modelURL: the model source URL
//   - options: variadic list of GameObjectBuilderOption functions to configure the GameObject
//
// Returns:
//   - GameObject: the newly created GameObject
func NewGameObject(id, modelURL string, options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:          id,
		modelURL:    modelURL,
		group:       graph.NewNode(id),
		targetScale: 1,
	}
	obj.group.ObjectID = id
	obj.enabled.Store(true)

	for _, option := range options {
		option(obj)
	}

	obj.group.Position = obj.targetPosition
	obj.group.Scale = mgl32.Vec3{obj.targetScale, obj.targetScale, obj.targetScale}
	obj.group.Visible = obj.enabled.Load()
	return obj
}

func (obj *gameObject) ID() string {
	return obj.id
}

func (obj *gameObject) ModelURL() string {
	return obj.modelURL
}

func (obj *gameObject) Node() *graph.Node {
	return obj.group
}

func (obj *gameObject) Model() *graph.Node {
	return obj.model
}

func (obj *gameObject) Attach(model *graph.Node) {
	if obj.model != nil {
		obj.group.Remove(obj.model)
		obj.model.Dispose()
	}
	obj.model = model
	if model != nil {
		obj.group.Add(model)
	}
}

func (obj *gameObject) Enabled() bool {
	return obj.enabled.Load()
}

func (obj *gameObject) SetEnabled(enabled bool) {
	obj.enabled.Store(enabled)
	obj.group.Visible = enabled
}

func (obj *gameObject) Position() mgl32.Vec3 {
	return obj.group.Position
}

func (obj *gameObject) SetPosition(p mgl32.Vec3) {
	obj.group.Position = p
}

func (obj *gameObject) WirePosition() common.Position {
	return common.PositionFromVec3(obj.group.Position)
}

func (obj *gameObject) Rotation() (pitch, yaw float32) {
	return obj.group.Rotation[0], obj.group.Rotation[1]
}

func (obj *gameObject) SetRotation(pitch, yaw float32) {
	obj.group.Rotation[0] = pitch
	obj.group.Rotation[1] = yaw
}

func (obj *gameObject) Scale() mgl32.Vec3 {
	return obj.group.Scale
}

func (obj *gameObject) SetScale(s mgl32.Vec3) {
	obj.group.Scale = s
}

func (obj *gameObject) TargetPosition() mgl32.Vec3 {
	return obj.targetPosition
}

func (obj *gameObject) SetTargetPosition(p mgl32.Vec3) {
	obj.targetPosition = p
}

func (obj *gameObject) TargetScale() float32 {
	return obj.targetScale
}

func (obj *gameObject) EntranceComplete() bool {
	return obj.entered.Load()
}

func (obj *gameObject) MarkEntranceComplete() {
	obj.entered.Store(true)
}

func (obj *gameObject) Bounds() common.Box {
	return obj.group.Bounds()
}

func (obj *gameObject) Dispose() {
	if p := obj.group.Parent(); p != nil {
		p.Remove(obj.group)
	}
	obj.group.Dispose()
}
