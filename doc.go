// Package planar is a retained-mode 2D scene layer for [Ebitengine]
// with a built-in binding to the [cp] physics engine.
//
// Planar provides the scene graph, transform hierarchy, render command
// pipeline, action-based input, camera viewports, and tweens that a
// physics-driven 2D game needs, and keeps the scene tree synchronized
// with a stepped physics space every frame.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and
// game loop for you:
//
//	scene := planar.NewScene()
//	// ... add nodes ...
//	planar.Run(scene, planar.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly:
//
//	type Game struct{ scene *planar.Scene }
//
//	func (g *Game) Update() error         { g.scene.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)  { g.scene.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
//
// Create nodes with typed constructors: [NewContainer], [NewSprite],
// [NewMesh], [NewPolygon], [NewOutline], and [NewLine].
//
//	world := planar.NewContainer("world")
//	scene.Root().AddChild(world)
//
//	crate := planar.NewSprite("crate", 48, 48)
//	crate.SetPosition(100, 50)
//	world.AddChild(crate)
//
// # Physics
//
// A [Space] wraps a cp space and tracks [Body] and [Joint] membership.
// A [Driver] registered on the scene steps the space at the display
// tick rate, and a [BodyControl] attached to a node copies the body's
// pose into the node before behaviors run:
//
//	space := planar.NewSpace(cfg)
//	scene.AddDriver(planar.NewDriver(cfg, planar.StepSequential, space))
//
//	body := planar.NewBody(1, cp.MomentForBox(1, 48, 48))
//	space.AddBody(body, planar.NotifyThenInsert)
//	crate.AddControl(planar.NewBodyControl(body))
//
// [NewDebugView] mirrors a space's bodies, shapes, and joints as
// outline geometry for overlay rendering.
//
// # Cameras
//
// A [View] maps a world-space window onto a screen viewport. Attach a
// [CameraController] with effects such as [FollowEffect],
// [ClipEffect], and [DistanceEffect] to drive the window from a target
// node with a perspective-style zoom:
//
//	view := planar.NewView(planar.Rect{Width: 640, Height: 480})
//	scene.AddView(view)
//
//	cam := planar.NewCameraController(planar.ProjectionPerspective)
//	cam.SetView(view)
//	cam.AddEffect(planar.NewFollowEffect(crate))
//	scene.AddCameraController(cam)
//
// Tweens (via [gween]) animate node fields over time, and the
// planar/ecs subpackage bridges scenes into [Donburi] worlds.
//
// [Ebitengine]: https://ebitengine.org
// [cp]: https://github.com/jakecoffman/cp
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package planar
