package planar

import (
	"errors"
	"testing"
)

// phaseControl appends a label to a shared log on every update.
type phaseControl struct {
	label string
	log   *[]string
}

func (c *phaseControl) SetNode(n *Node)   {}
func (c *phaseControl) Update(dt float64) { *c.log = append(*c.log, c.label) }

// selfRemovingControl detaches itself from its node on first update.
type selfRemovingControl struct {
	node    *Node
	updates int
}

func (c *selfRemovingControl) SetNode(n *Node) { c.node = n }

func (c *selfRemovingControl) Update(dt float64) {
	c.updates++
	c.node.RemoveControl(c)
}

// --- construction ---

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.root == nil {
		t.Fatal("root should not be nil")
	}
	if s.root.Name != "root" {
		t.Errorf("root.Name = %q, want %q", s.root.Name, "root")
	}
	if s.root.Type != NodeTypeContainer {
		t.Errorf("root.Type = %d, want NodeTypeContainer", s.root.Type)
	}
}

func TestSceneRoot(t *testing.T) {
	s := NewScene()
	if s.Root() != s.root {
		t.Error("Root() should return the internal root node")
	}
}

func TestSceneSetConfig(t *testing.T) {
	s := NewScene()
	s.SetConfig(Config{Debug: true})
	if !s.debug {
		t.Error("debug should be true")
	}
	if s.log == nil {
		t.Error("log should never be nil")
	}
}

// --- update ---

func TestSceneUpdateEmpty(t *testing.T) {
	s := NewScene()
	if err := s.Update(); err != nil {
		t.Fatalf("Update() = %v, want nil", err)
	}
}

func TestSceneUpdateFuncRuns(t *testing.T) {
	s := NewScene()
	calls := 0
	s.SetUpdateFunc(func() error {
		calls++
		return nil
	})
	s.Update()
	s.Update()
	if calls != 2 {
		t.Errorf("update func calls = %d, want 2", calls)
	}
}

func TestSceneUpdateFuncErrorAbortsTick(t *testing.T) {
	s := NewScene()
	wantErr := errors.New("boom")
	s.SetUpdateFunc(func() error { return wantErr })

	behaviors := 0
	s.Root().OnUpdate = func(dt float64) { behaviors++ }

	if err := s.Update(); !errors.Is(err, wantErr) {
		t.Fatalf("Update() = %v, want %v", err, wantErr)
	}
	if behaviors != 0 {
		t.Errorf("behaviors ran %d times after update error, want 0", behaviors)
	}
}

func TestSceneUpdateStepsDriverAtTickRate(t *testing.T) {
	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	sp.AddBody(b, NotifyThenInsert)
	b.SetVelocity(60, 0)

	d := NewDriver(Config{}, StepSequential, sp)
	s := NewScene()
	s.AddDriver(d)
	d.SetEnabled(true)

	s.Update()

	// One tick at the default 60 TPS advances 1/60 s.
	x, _ := b.Position()
	if !approxEqual(x, 1, 1e-6) {
		t.Errorf("x after one tick = %v, want 1", x)
	}
	if sp.StepCount() != 1 {
		t.Errorf("StepCount = %d, want 1", sp.StepCount())
	}
}

// --- tick order ---

func TestSceneTickOrder(t *testing.T) {
	var log []string

	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	b.OnStep = func(dt float64) { log = append(log, "step") }
	sp.AddBody(b, NotifyThenInsert)

	d := NewDriver(Config{}, StepSequential, sp)

	s := NewScene()
	s.AddDriver(d)
	d.SetEnabled(true)

	s.SetUpdateFunc(func() error {
		log = append(log, "update")
		return nil
	})
	s.Root().OnUpdate = func(dt float64) { log = append(log, "behavior") }
	s.Root().AddControl(&phaseControl{label: "control", log: &log})

	v := NewView(Rect{0, 0, 800, 600})
	s.AddView(v)
	c := NewCameraController(ProjectionOrthographic)
	c.SetView(v)
	c.AddEffect(&recordingEffect{name: "camera", log: &log})
	s.AddCameraController(c)

	s.Update()

	want := []string{"step", "update", "behavior", "control", "camera"}
	if len(log) != len(want) {
		t.Fatalf("phase log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("phase log = %v, want %v", log, want)
		}
	}
}

func TestSceneSyncsDebugViewBeforeBehaviors(t *testing.T) {
	sp := NewSpace(Config{})
	dv := NewDebugView(Config{}, sp)

	s := NewScene()
	s.AddDebugView(dv)

	b := NewBody(1, 1)
	s.SetUpdateFunc(func() error {
		sp.AddBody(b, NotifyThenInsert)
		return nil
	})

	sawNode := false
	s.Root().OnUpdate = func(dt float64) { sawNode = dv.BodyNode(b) != nil }

	s.Update()

	if !sawNode {
		t.Error("behaviors should observe the debug node for a body added in the update func")
	}
}

func TestSceneUpdatesWorldTransformAfterBehaviors(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	s.Root().AddChild(n)
	n.OnUpdate = func(dt float64) { n.SetPosition(42, 0) }

	s.Update()

	x, y := n.WorldPosition()
	if x != 42 || y != 0 {
		t.Errorf("WorldPosition = (%v, %v), want (42, 0)", x, y)
	}
}

func TestSceneControllersSeeFreshTransforms(t *testing.T) {
	s := NewScene()
	target := NewContainer("target")
	s.Root().AddChild(target)
	target.OnUpdate = func(dt float64) { target.SetPosition(42, -7) }

	v := NewView(Rect{0, 0, 800, 600})
	s.AddView(v)
	c := NewCameraController(ProjectionOrthographic)
	c.SetView(v)
	c.AddEffect(NewFollowEffect(target))
	s.AddCameraController(c)

	s.Update()

	if v.X != 42 || v.Y != -7 {
		t.Errorf("view = (%v, %v), want (42, -7)", v.X, v.Y)
	}
}

// --- behaviors ---

func TestSceneBehaviorsDepthFirst(t *testing.T) {
	var log []string

	s := NewScene()
	a := NewContainer("a")
	a1 := NewContainer("a1")
	b := NewContainer("b")
	s.Root().AddChild(a)
	a.AddChild(a1)
	s.Root().AddChild(b)

	s.Root().OnUpdate = func(dt float64) { log = append(log, "root") }
	a.OnUpdate = func(dt float64) { log = append(log, "a") }
	a1.OnUpdate = func(dt float64) { log = append(log, "a1") }
	b.OnUpdate = func(dt float64) { log = append(log, "b") }

	s.Update()

	want := []string{"root", "a", "a1", "b"}
	if len(log) != len(want) {
		t.Fatalf("order = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("order = %v, want %v", log, want)
		}
	}
}

func TestSceneControlRemovesSelfDuringUpdate(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	s.Root().AddChild(n)

	c := &selfRemovingControl{}
	n.AddControl(c)

	s.Update()
	s.Update()

	if c.updates != 1 {
		t.Errorf("updates = %d, want 1", c.updates)
	}
	if len(n.Controls()) != 0 {
		t.Errorf("Controls() len = %d, want 0", len(n.Controls()))
	}
}

func TestSceneNodeDisposesSelfDuringUpdate(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	s.Root().AddChild(n)

	updates := 0
	n.OnUpdate = func(dt float64) {
		updates++
		n.Dispose()
	}

	s.Update()
	s.Update()

	if updates != 1 {
		t.Errorf("updates = %d, want 1", updates)
	}
	if !n.IsDisposed() {
		t.Error("node should be disposed")
	}
}

func TestUpdateBehaviorsSkipsDisposed(t *testing.T) {
	n := NewContainer("n")
	called := false
	n.OnUpdate = func(dt float64) { called = true }
	n.disposed = true

	updateBehaviors(n, 1.0/60)

	if called {
		t.Error("OnUpdate should not run on a disposed node")
	}
}

// --- view registry ---

func TestSceneAddView(t *testing.T) {
	s := NewScene()
	v1 := NewView(Rect{0, 0, 800, 600})
	v2 := NewView(Rect{0, 0, 400, 300})
	s.AddView(v1)
	s.AddView(v2)

	views := s.Views()
	if len(views) != 2 {
		t.Fatalf("Views() len = %d, want 2", len(views))
	}
	if views[0] != v1 || views[1] != v2 {
		t.Error("Views() should preserve registration order")
	}
}

func TestSceneAddViewNilPanics(t *testing.T) {
	s := NewScene()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil view, got none")
		}
	}()
	s.AddView(nil)
}

func TestSceneRemoveView(t *testing.T) {
	s := NewScene()
	v1 := NewView(Rect{0, 0, 100, 100})
	v2 := NewView(Rect{0, 0, 100, 100})
	v3 := NewView(Rect{0, 0, 100, 100})
	s.AddView(v1)
	s.AddView(v2)
	s.AddView(v3)

	s.RemoveView(v2)

	views := s.Views()
	if len(views) != 2 {
		t.Fatalf("Views() len = %d, want 2", len(views))
	}
	if views[0] != v1 || views[1] != v3 {
		t.Error("removal should preserve the order of the remaining views")
	}

	// Removing a view that is not registered is a no-op.
	s.RemoveView(v2)
	if len(s.Views()) != 2 {
		t.Errorf("Views() len = %d, want 2", len(s.Views()))
	}
}

// --- camera controller registry ---

func TestSceneAddCameraController(t *testing.T) {
	s := NewScene()
	c := NewCameraController(ProjectionOrthographic)
	s.AddCameraController(c)

	if len(s.CameraControllers()) != 1 || s.CameraControllers()[0] != c {
		t.Error("controller should be registered")
	}
}

func TestSceneAddCameraControllerNilPanics(t *testing.T) {
	s := NewScene()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil camera controller, got none")
		}
	}()
	s.AddCameraController(nil)
}

func TestSceneRemoveCameraController(t *testing.T) {
	s := NewScene()
	c1 := NewCameraController(ProjectionOrthographic)
	c2 := NewCameraController(ProjectionPerspective)
	s.AddCameraController(c1)
	s.AddCameraController(c2)

	s.RemoveCameraController(c1)

	if len(s.CameraControllers()) != 1 || s.CameraControllers()[0] != c2 {
		t.Error("remaining controller should be c2")
	}
}

// --- driver registry ---

func TestSceneAddDriverInitializes(t *testing.T) {
	sp := NewSpace(Config{})
	d := NewDriver(Config{}, StepSequential, sp)
	s := NewScene()
	s.AddDriver(d)

	if d.State() != DriverAttached {
		t.Errorf("State = %v, want %v", d.State(), DriverAttached)
	}
	if d.Scene() != s {
		t.Error("Scene() should return the owning scene")
	}
	if len(s.Drivers()) != 1 || s.Drivers()[0] != d {
		t.Error("driver should be registered")
	}
}

func TestSceneAddDriverNilPanics(t *testing.T) {
	s := NewScene()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil driver, got none")
		}
	}()
	s.AddDriver(nil)
}

func TestSceneRemoveDriverCleansUp(t *testing.T) {
	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	sp.AddBody(b, NotifyThenInsert)

	d := NewDriver(Config{}, StepSequential, sp)
	s := NewScene()
	s.AddDriver(d)
	d.SetEnabled(true)

	s.RemoveDriver(d)

	if len(s.Drivers()) != 0 {
		t.Errorf("Drivers() len = %d, want 0", len(s.Drivers()))
	}
	if d.State() != DriverUnattached {
		t.Errorf("State = %v, want %v", d.State(), DriverUnattached)
	}
	if sp.NumBodies() != 0 {
		t.Errorf("NumBodies = %d, want 0", sp.NumBodies())
	}
	if b.Space() != nil {
		t.Error("body should be detached after driver cleanup")
	}
}

func TestSceneRemoveDriverNotRegistered(t *testing.T) {
	sp := NewSpace(Config{})
	d := NewDriver(Config{}, StepSequential, sp)
	s1 := NewScene()
	s1.AddDriver(d)

	s2 := NewScene()
	s2.RemoveDriver(d)

	if d.State() != DriverAttached {
		t.Error("foreign RemoveDriver should not clean the driver up")
	}
	if len(s1.Drivers()) != 1 {
		t.Errorf("Drivers() len = %d, want 1", len(s1.Drivers()))
	}
}

// --- debug view registry ---

func TestSceneAddDebugViewAttachesRoot(t *testing.T) {
	sp := NewSpace(Config{})
	dv := NewDebugView(Config{}, sp)
	s := NewScene()
	s.AddDebugView(dv)

	if dv.Root().Parent != s.Root() {
		t.Error("debug root should be parented to the scene root")
	}
}

func TestSceneAddDebugViewNilPanics(t *testing.T) {
	s := NewScene()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil debug view, got none")
		}
	}()
	s.AddDebugView(nil)
}

func TestSceneRemoveDebugViewDetaches(t *testing.T) {
	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	sp.AddBody(b, NotifyThenInsert)

	dv := NewDebugView(Config{}, sp)
	s := NewScene()
	s.AddDebugView(dv)
	s.Update()

	s.RemoveDebugView(dv)

	if dv.Root().Parent != nil {
		t.Error("debug root should be detached from the scene")
	}
	if dv.Root().IsDisposed() {
		t.Error("RemoveDebugView should not dispose the mirror")
	}

	// The mirror stays functional; it is just no longer drawn or synced.
	dv.Sync()
	if dv.BodyNode(b) == nil {
		t.Error("detached mirror should still sync")
	}
}

func TestSceneUpdateSyncsDebugViews(t *testing.T) {
	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	sp.AddBody(b, NotifyThenInsert)

	dv := NewDebugView(Config{}, sp)
	s := NewScene()
	s.AddDebugView(dv)

	if dv.BodyNode(b) != nil {
		t.Fatal("no node expected before the first update")
	}
	s.Update()
	if dv.BodyNode(b) == nil {
		t.Error("update should sync registered debug views")
	}
}

// --- teardown ---

func TestSceneDispose(t *testing.T) {
	sp := NewSpace(Config{})
	b := NewBody(1, 1)
	sp.AddBody(b, NotifyThenInsert)

	d := NewDriver(Config{}, StepSequential, sp)
	s := NewScene()
	s.AddDriver(d)
	d.SetEnabled(true)
	s.AddView(NewView(Rect{0, 0, 800, 600}))
	s.AddCameraController(NewCameraController(ProjectionOrthographic))

	s.Dispose()

	if !s.Root().IsDisposed() {
		t.Error("root should be disposed")
	}
	if d.State() != DriverUnattached {
		t.Errorf("State = %v, want %v", d.State(), DriverUnattached)
	}
	if sp.NumBodies() != 0 {
		t.Errorf("NumBodies = %d, want 0", sp.NumBodies())
	}
	if len(s.Views()) != 0 || len(s.Drivers()) != 0 || len(s.CameraControllers()) != 0 {
		t.Error("registries should be empty after dispose")
	}
}

func BenchmarkSceneUpdate(b *testing.B) {
	s := NewScene()
	for i := 0; i < 16; i++ {
		parent := NewContainer("p")
		s.Root().AddChild(parent)
		for j := 0; j < 16; j++ {
			child := NewContainer("c")
			child.SetPosition(float64(j)*8, float64(i)*8)
			parent.AddChild(child)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		s.Update()
	}
}
