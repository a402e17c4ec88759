package planar

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const defaultCommandCap = 1024

// Scene owns the node tree and everything that runs a tick: physics
// drivers, debug views, node behaviors, the transform pass and camera
// controllers. Draw renders the tree once per registered view.
//
// Tick order in Update:
//  1. drivers pre-step: sequential drivers step their spaces now,
//     parallel drivers join the step launched last tick
//  2. the update function (gameplay; no step is in flight here, so
//     this is the safe place to mutate live physics state)
//  3. debug views sync
//  4. node behaviors: OnUpdate hooks and controls
//  5. drivers post-step: parallel drivers launch the next step, which
//     then overlaps with render
//  6. transform pass
//  7. view scroll animations, then camera controllers
type Scene struct {
	// ClearColor fills the screen before drawing when its alpha is
	// above zero.
	ClearColor Color

	root  *Node
	log   *zap.Logger
	debug bool

	views       []*View
	controllers []*CameraController
	drivers     []*Driver
	debugViews  []*DebugView

	updateFunc func() error

	// Render state
	commands   []RenderCommand
	sortBuf    []RenderCommand
	cullBounds Rect // current view cull bounds (set per-view during Draw)
	cullActive bool // whether culling is active for the current view

	frames uint64
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:     NewContainer("root"),
		log:      zap.NewNop(),
		commands: make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:  make([]RenderCommand, 0, defaultCommandCap),
	}
}

// SetConfig installs the scene's logger and debug flag. Components
// created separately (spaces, drivers, debug views) carry their own
// Config.
func (s *Scene) SetConfig(cfg Config) {
	s.log = cfg.logger()
	s.debug = cfg.Debug
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc sets the per-tick gameplay callback. Returning an error
// aborts the run loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update advances one tick.
func (s *Scene) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	for _, d := range s.drivers {
		d.preUpdate(dt)
	}
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	for _, dv := range s.debugViews {
		dv.Sync()
	}
	updateBehaviors(s.root, dt)
	for _, d := range s.drivers {
		d.postUpdate(dt)
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	for _, v := range s.views {
		v.update(dt)
	}
	for _, c := range s.controllers {
		c.Update(dt)
	}
	return nil
}

// updateBehaviors runs OnUpdate hooks and controls depth-first. Index
// loops tolerate removal of the current entry during its own update.
func updateBehaviors(n *Node, dt float64) {
	if n.disposed {
		return
	}
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for i := 0; i < len(n.controls); i++ {
		n.controls[i].Update(dt)
	}
	for i := 0; i < len(n.children); i++ {
		updateBehaviors(n.children[i], dt)
	}
}

// Draw renders the scene. With no registered views the whole tree draws
// at identity, full screen; otherwise each view draws into its viewport
// in registration order.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	if len(s.views) == 0 {
		s.drawView(screen, nil)
	} else {
		for _, v := range s.views {
			s.drawView(screen, v)
		}
	}
	s.frames++
	if s.debug && s.frames%120 == 0 {
		s.log.Debug("frame stats",
			zap.Uint64("frame", s.frames),
			zap.Int("commands", len(s.commands)),
			zap.Int("views", len(s.views)))
	}
}

// drawView renders the tree from one view. If v is nil, identity view.
func (s *Scene) drawView(screen *ebiten.Image, v *View) {
	view := identityTransform
	s.cullActive = false
	target := screen
	if v != nil {
		view = v.computeViewMatrix()
		s.cullActive = v.CullEnabled
		if s.cullActive {
			s.cullBounds = v.VisibleBounds()
		}
		vp := v.Viewport
		target = screen.SubImage(image.Rect(
			int(vp.X), int(vp.Y),
			int(vp.X+vp.Width), int(vp.Y+vp.Height),
		)).(*ebiten.Image)
	}

	s.commands = s.commands[:0]
	treeOrder := 0
	s.traverse(s.root, view, &treeOrder)
	s.mergeSort()
	s.submit(target)
}

// --- Views ---

// AddView registers a view for drawing.
func (s *Scene) AddView(v *View) {
	if v == nil {
		panic("planar: nil view")
	}
	s.views = append(s.views, v)
}

// RemoveView unregisters a view.
func (s *Scene) RemoveView(v *View) {
	for i, vv := range s.views {
		if vv == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Views returns the registered views in draw order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Views() []*View {
	return s.views
}

// --- Camera controllers ---

// AddCameraController registers a controller to run at the end of every
// tick.
func (s *Scene) AddCameraController(c *CameraController) {
	if c == nil {
		panic("planar: nil camera controller")
	}
	s.controllers = append(s.controllers, c)
}

// RemoveCameraController unregisters a controller.
func (s *Scene) RemoveCameraController(c *CameraController) {
	for i, cc := range s.controllers {
		if cc == c {
			s.controllers = append(s.controllers[:i], s.controllers[i+1:]...)
			return
		}
	}
}

// CameraControllers returns the registered controllers. The returned
// slice MUST NOT be mutated.
func (s *Scene) CameraControllers() []*CameraController {
	return s.controllers
}

// --- Physics drivers ---

// AddDriver initializes the driver against this scene and steps it
// every tick once enabled.
func (s *Scene) AddDriver(d *Driver) {
	if d == nil {
		panic("planar: nil driver")
	}
	d.Initialize(s)
	s.drivers = append(s.drivers, d)
}

// RemoveDriver cleans the driver up, joining any in-flight step and
// destroying its spaces, then unregisters it.
func (s *Scene) RemoveDriver(d *Driver) {
	for i, dd := range s.drivers {
		if dd == d {
			s.drivers = append(s.drivers[:i], s.drivers[i+1:]...)
			d.Cleanup()
			return
		}
	}
}

// Drivers returns the registered drivers. The returned slice MUST NOT
// be mutated.
func (s *Scene) Drivers() []*Driver {
	return s.drivers
}

// --- Debug views ---

// AddDebugView attaches the debug mirror's root to the scene and syncs
// it every tick.
func (s *Scene) AddDebugView(dv *DebugView) {
	if dv == nil {
		panic("planar: nil debug view")
	}
	s.debugViews = append(s.debugViews, dv)
	s.root.AddChild(dv.Root())
}

// RemoveDebugView detaches the mirror from the scene without disposing
// it.
func (s *Scene) RemoveDebugView(dv *DebugView) {
	for i, dd := range s.debugViews {
		if dd == dv {
			s.debugViews = append(s.debugViews[:i], s.debugViews[i+1:]...)
			dv.Root().RemoveFromParent()
			return
		}
	}
}

// --- Teardown ---

// Dispose cleans up all drivers and disposes the node tree. The scene
// must not be updated or drawn afterwards.
func (s *Scene) Dispose() {
	for _, d := range s.drivers {
		d.Cleanup()
	}
	s.drivers = nil
	s.debugViews = nil
	s.controllers = nil
	s.views = nil
	s.root.Dispose()
}
