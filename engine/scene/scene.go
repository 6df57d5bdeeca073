package scene

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/animation"
	"github.com/Carmen-Shannon/oxy-storefront/engine/camera"
	"github.com/Carmen-Shannon/oxy-storefront/engine/game_object"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"
	"github.com/Carmen-Shannon/oxy-storefront/engine/light"
	"github.com/Carmen-Shannon/oxy-storefront/engine/loader"
	"github.com/Carmen-Shannon/oxy-storefront/engine/progress"
	"github.com/Carmen-Shannon/oxy-storefront/engine/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// ClearColor is the storefront background colour, #f5f5f5.
var ClearColor = mgl32.Vec4{0xf5 / 255.0, 0xf5 / 255.0, 0xf5 / 255.0, 1}

// ObjectSpec is one configured object of a scene document.
type ObjectSpec struct {
	ID       string
	URL      string
	Position mgl32.Vec3
	Size     float32
}

// RendererFactory creates the render surface of a session. Returning a nil Renderer runs the session headless.
type RendererFactory func() (renderer.Renderer, error)

// pendingLoad is an object whose model is still being fetched.
type pendingLoad struct {
	spec  ObjectSpec
	index int
}

// live is everything owned by an initialized session. It is dropped wholesale on Teardown.
type live struct {
	root       *graph.Node
	backdrop   *graph.Node
	camera     camera.Camera
	controller camera.CameraController
	rig        light.Rig
	renderer   renderer.Renderer
	tracker    progress.Tracker
	scheduler  animation.Scheduler

	objects map[string]game_object.GameObject
	pending map[string]*pendingLoad
	failed  map[string]string

	// seenURLs are the model URLs already counted into the progress total.
	seenURLs map[string]bool
	// openURLs are counted URLs whose first load has not completed.
	openURLs map[string]bool
}

// session is the implementation of the Session interface.
// Every method must be called on the engine loop thread; loader callbacks are delivered there too.
type session struct {
	loader   loader.Loader
	factory  RendererFactory
	clock    func() time.Time
	width    int
	height   int
	entrance time.Duration

	onProgress []func(progress.LoadingState)
	onRemove   []func(id string)
	onEntered  []func()

	// epoch changes on every Initialize and Teardown so late loader callbacks can tell they are stale.
	epoch uint64
	state *live
}

// Session is the Scene Lifecycle Manager: it owns one live 3D session at a time, from the
// camera entrance through object reconciliation to teardown.
type Session interface {
	// Initialize builds a new session: camera, lights, render surface and the backdrop image.
	// It is a logged no-op while a session is live.
	//
	// Parameters:
	//   - backgroundURL: the backdrop image source
	//
	// Returns:
	//   - error: error if the render surface could not be created
	Initialize(backgroundURL string) error

	// Live reports whether a session is initialized.
	Live() bool

	// Resize updates the camera aspect and the render surface. Ignored without a session.
	Resize(width, height int)

	// Teardown cancels every animation, disposes every object and the backdrop and releases the surface.
	// Safe to call repeatedly.
	Teardown()

	// Tick advances the camera, then the animation scheduler, then draws one frame.
	//
	// Parameters:
	//   - now: the frame timestamp
	//
	// Returns:
	//   - error: error if drawing failed
	Tick(now time.Time) error

	// SetObjects reconciles the placed objects with the configured list.
	// Objects missing from the list are removed first, known ids are repositioned and new ids are loaded.
	//
	// Parameters:
	//   - specs: the configured objects, in document order
	SetObjects(specs []ObjectSpec)

	// ApplyRemotePosition moves an object to a position received from another viewer.
	// Any running entrance animation is cancelled and the object counts as entered.
	//
	// Parameters:
	//   - id: the object id
	//   - pos: the new position
	//
	// Returns:
	//   - bool: false if the id is unknown
	ApplyRemotePosition(id string, pos common.Position) bool

	// SettleObject cancels the entrance of a placed object and snaps it to full size where it stands,
	// so a gesture can take it over.
	//
	// Returns:
	//   - bool: false if no placed object has the id
	SettleObject(id string) bool

	// Ray returns the camera ray through a point in normalized device coordinates.
	Ray(ndc mgl32.Vec2) common.Ray

	// Pick returns the nearest placed object hit by r.
	Pick(r common.Ray) (game_object.GameObject, bool)

	// Object looks up a placed object by id.
	Object(id string) (game_object.GameObject, bool)

	// Objects returns the placed objects in no particular order.
	Objects() []game_object.GameObject

	// Count returns the number of placed objects.
	Count() int

	// Camera returns the session camera, or nil without a session.
	Camera() camera.Camera

	// Controller returns the camera controller, or nil without a session.
	Controller() camera.CameraController

	// Progress returns the loading counters of the live session.
	Progress() progress.LoadingState

	// Root returns the scene graph root, or nil without a session.
	Root() *graph.Node

	// OnProgress registers fn to receive loading progress. Observers survive re-initialization.
	OnProgress(fn func(progress.LoadingState))

	// OnObjectRemoved registers fn to run after an object is removed by reconciliation.
	OnObjectRemoved(fn func(id string))

	// OnEntranceComplete registers fn to run when the camera entrance of any session finishes.
	OnEntranceComplete(fn func())
}

var _ Session = &session{}

// NewSession creates an idle Session. Nothing is built until Initialize.
//
// Parameters:
//   - l: the asset loader shared across sessions
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the session
func NewSession(l loader.Loader, options ...SessionBuilderOption) Session {
	s := &session{
		loader:   l,
		clock:    time.Now,
		width:    1280,
		height:   720,
		entrance: 2500 * time.Millisecond,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *session) Initialize(backgroundURL string) error {
	if s.state != nil {
		log.Printf("[Scene] Initialize ignored: a session is already live")
		return nil
	}

	var r renderer.Renderer
	if s.factory != nil {
		var err error
		if r, err = s.factory(); err != nil {
			return err
		}
	}
	if r != nil {
		r.SetClearColor(ClearColor)
		r.Resize(s.width, s.height)
	}

	controller := camera.NewCameraController(
		camera.WithEntrance(mgl32.Vec3{0, 0.5, 35}, mgl32.Vec3{0, 0.5, 12}, s.entrance),
	)
	for _, fn := range s.onEntered {
		controller.OnEntranceComplete(fn)
	}
	controller.OnEntranceComplete(func() {
		log.Printf("[Scene] camera entrance complete")
	})

	tracker := progress.NewTracker()
	for _, fn := range s.onProgress {
		tracker.OnChange(fn)
	}

	s.epoch++
	s.state = &live{
		root:       graph.NewNode("root"),
		camera:     camera.NewCamera(camera.WithController(controller), camera.WithAspect(aspect(s.width, s.height))),
		controller: controller,
		rig:        light.NewStorefrontRig(),
		renderer:   r,
		tracker:    tracker,
		scheduler:  animation.NewScheduler(),
		objects:    make(map[string]game_object.GameObject),
		pending:    make(map[string]*pendingLoad),
		failed:     make(map[string]string),
		seenURLs:   make(map[string]bool),
		openURLs:   make(map[string]bool),
	}
	log.Printf("[Scene] session initialized (%dx%d)", s.width, s.height)

	s.loadBackdrop(backgroundURL)
	return nil
}

func (s *session) loadBackdrop(url string) {
	epoch := s.epoch
	s.loader.LoadImage(url, func(res loader.ImageResult) {
		if s.epoch != epoch || s.state == nil {
			return
		}
		st := s.state
		if res.Err != nil {
			log.Printf("[Scene] backdrop %s unavailable: %v", url, res.Err)
			st.tracker.MarkBackground()
			return
		}
		node := graph.NewNode("backdrop")
		node.Mesh = graph.NewMesh(graph.NewPlane(16, 9), graph.Material{
			Color: mgl32.Vec4{1, 1, 1, 1},
			Map:   res.Texture,
			Unlit: true,
		})
		node.Position = mgl32.Vec3{0, 0, -1}
		st.root.Add(node)
		st.backdrop = node
		st.tracker.MarkBackground()
	})
}

func (s *session) Live() bool {
	return s.state != nil
}

func (s *session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	if s.state == nil {
		return
	}
	s.state.camera.SetAspect(aspect(width, height))
	if s.state.renderer != nil {
		s.state.renderer.Resize(width, height)
	}
}

func (s *session) Teardown() {
	st := s.state
	if st == nil {
		return
	}
	s.state = nil
	s.epoch++

	st.scheduler.CancelAll()
	for id, obj := range st.objects {
		obj.Dispose()
		delete(st.objects, id)
	}
	if st.backdrop != nil {
		st.root.Remove(st.backdrop)
		st.backdrop.Dispose()
	}
	st.root.Dispose()
	if st.renderer != nil {
		st.renderer.Release()
	}
	log.Printf("[Scene] session torn down")
}

func (s *session) Tick(now time.Time) error {
	st := s.state
	if st == nil {
		return nil
	}
	st.controller.Update(now)
	st.camera.Update()
	st.scheduler.Advance(now)
	if st.renderer == nil {
		return nil
	}
	return st.renderer.Render(st.root, st.camera, st.rig)
}

func (s *session) Ray(ndc mgl32.Vec2) common.Ray {
	if s.state == nil {
		return common.Ray{}
	}
	return s.state.camera.Ray(ndc)
}

func (s *session) Pick(r common.Ray) (game_object.GameObject, bool) {
	if s.state == nil {
		return nil, false
	}
	roots := make([]*graph.Node, 0, len(s.state.objects))
	for _, obj := range s.state.objects {
		roots = append(roots, obj.Node())
	}
	for _, hit := range graph.Raycast(r, roots) {
		tagged := hit.Node.Tagged()
		if tagged == nil {
			continue
		}
		if obj, ok := s.state.objects[tagged.ObjectID]; ok {
			return obj, true
		}
	}
	return nil, false
}

func (s *session) Object(id string) (game_object.GameObject, bool) {
	if s.state == nil {
		return nil, false
	}
	obj, ok := s.state.objects[id]
	return obj, ok
}

func (s *session) Objects() []game_object.GameObject {
	if s.state == nil {
		return nil
	}
	out := make([]game_object.GameObject, 0, len(s.state.objects))
	for _, obj := range s.state.objects {
		out = append(out, obj)
	}
	return out
}

func (s *session) Count() int {
	if s.state == nil {
		return 0
	}
	return len(s.state.objects)
}

func (s *session) Camera() camera.Camera {
	if s.state == nil {
		return nil
	}
	return s.state.camera
}

func (s *session) Controller() camera.CameraController {
	if s.state == nil {
		return nil
	}
	return s.state.controller
}

func (s *session) Progress() progress.LoadingState {
	if s.state == nil {
		return progress.LoadingState{}
	}
	return s.state.tracker.Snapshot()
}

func (s *session) Root() *graph.Node {
	if s.state == nil {
		return nil
	}
	return s.state.root
}

func (s *session) OnProgress(fn func(progress.LoadingState)) {
	s.onProgress = append(s.onProgress, fn)
	if s.state != nil {
		s.state.tracker.OnChange(fn)
	}
}

func (s *session) OnObjectRemoved(fn func(id string)) {
	s.onRemove = append(s.onRemove, fn)
}

func (s *session) OnEntranceComplete(fn func()) {
	s.onEntered = append(s.onEntered, fn)
	if s.state != nil {
		s.state.controller.OnEntranceComplete(fn)
	}
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
