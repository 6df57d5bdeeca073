package storefront

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine"
	"github.com/Carmen-Shannon/oxy-storefront/engine/interaction"
	"github.com/Carmen-Shannon/oxy-storefront/engine/loader"
	"github.com/Carmen-Shannon/oxy-storefront/engine/progress"
	"github.com/Carmen-Shannon/oxy-storefront/engine/scene"
	"github.com/Carmen-Shannon/oxy-storefront/engine/window"
	"github.com/Carmen-Shannon/oxy-storefront/realtime"
)

// Viewer shows one scene document and keeps it in sync with the document file and the scene's room.
//
// Everything except Close runs on the engine loop thread: window input, posted loader and realtime
// callbacks and file reloads all arrive there.
type Viewer struct {
	path string
	doc  *SceneDocument

	engine      engine.Engine
	loader      loader.Loader
	ownsLoader  bool
	session     scene.Session
	interaction interaction.Controller
	client      realtime.Client

	socketURL      string
	factory        scene.RendererFactory
	clock          func() time.Time
	width          int
	height         int
	watch          bool
	debounce       time.Duration
	sessionOptions []scene.SessionBuilderOption

	ctx       context.Context
	watcher   *Watcher
	lastSaved []byte
	blocked   bool
	closeOnce sync.Once
}

// NewViewer loads the scene document at path and wires a session, the interaction controller and,
// when configured, a realtime client onto one engine loop. Nothing is shown until Start.
//
// Parameters:
//   - path: the scene document (.yaml, .yml, .toml or .json)
//   - options: functional options to configure the viewer
//
// Returns:
//   - *Viewer: the viewer
//   - error: error if the document cannot be loaded
func NewViewer(path string, options ...ViewerBuilderOption) (*Viewer, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		path:     path,
		doc:      doc,
		width:    1280,
		height:   720,
		debounce: 100 * time.Millisecond,
	}
	for _, option := range options {
		option(v)
	}

	if v.engine == nil {
		v.engine = engine.NewEngine()
	}
	if w := v.engine.Window(); w != nil {
		v.width, v.height = w.Width(), w.Height()
	}
	if v.loader == nil {
		v.loader = loader.NewLoader(loader.WithPoster(v.engine))
		v.ownsLoader = true
	}
	if v.client == nil && v.socketURL != "" {
		v.client = realtime.NewClient(v.socketURL, realtime.WithPoster(v.engine))
	}

	sessionOptions := []scene.SessionBuilderOption{scene.WithSurfaceSize(v.width, v.height)}
	if v.factory != nil {
		sessionOptions = append(sessionOptions, scene.WithRendererFactory(v.factory))
	}
	if v.clock != nil {
		sessionOptions = append(sessionOptions, scene.WithClock(v.clock))
	}
	v.session = scene.NewSession(v.loader, append(sessionOptions, v.sessionOptions...)...)

	v.interaction = interaction.NewController(v.session, sessionLooker{v.session},
		interaction.WithCommit(v.commit),
		interaction.WithCursor(v.setCursor),
		interaction.WithSurfaceSize(v.width, v.height),
	)

	v.session.OnObjectRemoved(v.interaction.Forget)
	v.session.OnProgress(func(s progress.LoadingState) {
		log.Printf("[Viewer] loading %.0f%% (%d/%d models, background %t)",
			s.Fraction()*100, s.ModelsLoaded, s.ModelsTotal, s.BackgroundLoaded)
	})
	v.session.OnEntranceComplete(func() {
		log.Printf("[Viewer] entrance complete, %d objects placed", v.session.Count())
	})

	if v.client != nil {
		v.client.OnPositionChanged(v.applyRemote)
		v.client.OnOccupancy(v.occupancyChanged)
	}

	v.engine.SetTickCallback(v.tick)
	v.engine.Profiler().SetAnnotation(func() string {
		return fmt.Sprintf("objects=%d loading=%.0f%%", v.session.Count(), v.session.Progress().Fraction()*100)
	})
	if w := v.engine.Window(); w != nil {
		v.bindWindow(w)
	}
	return v, nil
}

// Start initializes the session from the document, enters the scene's room and starts watching the file.
//
// Parameters:
//   - ctx: bounds realtime dials for the lifetime of the viewer
//
// Returns:
//   - error: error if the session or the watcher cannot be started
func (v *Viewer) Start(ctx context.Context) error {
	v.ctx = ctx
	if err := v.session.Initialize(v.doc.ImageURL); err != nil {
		return fmt.Errorf("failed to start scene %q: %w", v.doc.ID, err)
	}
	v.session.SetObjects(v.doc.Specs())

	if v.client != nil {
		v.client.Enter(ctx, v.doc.ID)
	}

	if v.watch {
		w, err := Watch(v.path, v.debounce, func(data []byte) {
			v.engine.Post(func() { v.reload(data) })
		})
		if err != nil {
			return err
		}
		v.watcher = w
	}
	log.Printf("[Viewer] showing scene %q from %s", v.doc.ID, v.path)
	return nil
}

// Run drives the engine loop until the window closes or ctx is cancelled, then closes the viewer.
func (v *Viewer) Run(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			v.engine.Quit()
		case <-v.engine.Done():
		}
	}()
	v.engine.Run()
	v.Close()
}

// Close stops watching, leaves the room and tears the session down. Safe to call repeatedly.
func (v *Viewer) Close() {
	v.closeOnce.Do(func() {
		if v.watcher != nil {
			if err := v.watcher.Close(); err != nil {
				log.Printf("[Viewer] close watcher: %v", err)
			}
		}
		if v.client != nil {
			v.client.Leave()
		}
		v.session.Teardown()
		if v.ownsLoader {
			v.loader.Close()
		}
		v.engine.Quit()
	})
}

// Document returns a copy of the document as last loaded or edited.
func (v *Viewer) Document() *SceneDocument {
	return v.doc.Clone()
}

// Session returns the scene session.
func (v *Viewer) Session() scene.Session {
	return v.session
}

// Interaction returns the object placement controller.
func (v *Viewer) Interaction() interaction.Controller {
	return v.interaction
}

// Engine returns the loop the viewer runs on.
func (v *Viewer) Engine() engine.Engine {
	return v.engine
}

// Blocked reports whether the room refused this viewer.
func (v *Viewer) Blocked() bool {
	return v.blocked
}

func (v *Viewer) tick(now time.Time, _ float32) {
	if err := v.session.Tick(now); err != nil {
		log.Printf("[Viewer] frame: %v", err)
	}
}

// commit persists a finished drag and shares it with the room.
func (v *Viewer) commit(objectID string, pos common.Position) {
	if !v.doc.SetPosition(objectID, pos) {
		return
	}
	if v.client != nil {
		v.client.EmitPosition(objectID, pos)
	}
	data, err := Save(v.path, v.doc)
	if err != nil {
		log.Printf("[Viewer] %v", err)
		return
	}
	v.lastSaved = data
}

func (v *Viewer) applyRemote(objectID string, pos common.Position) {
	v.doc.SetPosition(objectID, pos)
	if !v.session.ApplyRemotePosition(objectID, pos) {
		log.Printf("[Viewer] position for unknown object %q ignored", objectID)
	}
}

func (v *Viewer) occupancyChanged(s realtime.OccupancyState) {
	if !s.Full || v.blocked {
		return
	}
	v.blocked = true
	v.teardown()
	log.Printf("[Viewer] scene %q is full (%d of %d users), entry blocked", v.doc.ID, s.UserCount, s.MaxUsers)
}

// reload applies an edited document file.
func (v *Viewer) reload(data []byte) {
	if bytes.Equal(data, v.lastSaved) {
		return
	}
	format, err := FormatFromPath(v.path)
	if err != nil {
		log.Printf("[Viewer] %v", err)
		return
	}
	doc, err := Parse(data, format)
	if err != nil {
		log.Printf("[Viewer] keeping previous document: %v", err)
		return
	}

	prev := v.doc
	v.doc = doc
	sceneChanged := doc.ID != prev.ID
	if sceneChanged {
		v.blocked = false
	}
	if v.blocked {
		return
	}

	if doc.ImageURL != prev.ImageURL || !v.session.Live() {
		v.teardown()
		if err := v.session.Initialize(doc.ImageURL); err != nil {
			log.Printf("[Viewer] %v", err)
			return
		}
	}
	v.session.SetObjects(doc.Specs())

	if sceneChanged && v.client != nil {
		ctx := v.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		v.client.Enter(ctx, doc.ID)
	}
	log.Printf("[Viewer] reloaded scene %q (%d models)", doc.ID, len(doc.Models))
}

// teardown drops the session and any gesture that pointed into it.
func (v *Viewer) teardown() {
	v.session.Teardown()
	v.interaction.PointerLeave()
}

func (v *Viewer) setCursor(c common.Cursor) {
	if w := v.engine.Window(); w != nil {
		w.SetCursor(c)
	}
}

func (v *Viewer) bindWindow(w window.Window) {
	w.SetKeyDownCallback(func(key uint32) {
		if c := v.session.Controller(); c != nil {
			c.KeyDown(key)
		}
	})
	w.SetKeyUpCallback(func(key uint32) {
		if c := v.session.Controller(); c != nil {
			c.KeyUp(key)
		}
	})
	w.SetFocusLostCallback(func() {
		if c := v.session.Controller(); c != nil {
			c.ReleaseKeys()
		}
	})
	w.SetMouseDownCallback(func(button common.MouseButton, x, y float32, shift bool) {
		v.interaction.PointerDown(button, x, y, shift)
	})
	w.SetMouseMoveCallback(v.interaction.PointerMove)
	w.SetMouseUpCallback(v.interaction.PointerUp)
	w.SetMouseLeaveCallback(v.interaction.PointerLeave)
	w.SetResizeCallback(func(width, height int) {
		v.session.Resize(width, height)
		v.interaction.Resize(width, height)
	})
}

// sessionLooker follows the camera controller of whichever session is live.
type sessionLooker struct {
	session scene.Session
}

func (l sessionLooker) EntranceComplete() bool {
	c := l.session.Controller()
	return c != nil && c.EntranceComplete()
}

func (l sessionLooker) Look(dx, dy float32) {
	if c := l.session.Controller(); c != nil {
		c.Look(dx, dy)
	}
}
