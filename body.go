package planar

import (
	"sync"

	"github.com/jakecoffman/cp/v2"
)

// BodyKind mirrors how the underlying engine integrates a body.
type BodyKind uint8

const (
	// BodyDynamic bodies are fully simulated.
	BodyDynamic BodyKind = iota
	// BodyKinematic bodies are moved by the application and push dynamic
	// bodies around without being pushed back.
	BodyKinematic
	// BodyStatic bodies never move.
	BodyStatic
)

func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	default:
		return "unknown"
	}
}

// BodySource is anything that can stand in for a physics body when
// adding to or removing from a space. *Body is its own source, so
// gameplay types embedding or owning a Body can be passed to
// Space.AddBody directly.
type BodySource interface {
	PhysicsBody() *Body
}

// bodyIDCounter is a plain counter; bodies are created on the game
// goroutine.
var bodyIDCounter uint64

// bodySnapshot is the last completed step's state, readable while the
// next step is still in flight.
type bodySnapshot struct {
	x, y       float64
	angle      float64
	vx, vy     float64
	angularVel float64
	resting    bool
}

// Body wraps an engine body together with its shapes, its scene node
// binding and a read snapshot that stays coherent while a parallel
// driver is stepping the space.
//
// Mutations of the live engine state (SetPosition, ApplyImpulse, shape
// changes) must not overlap an in-flight step; run them from the scene
// update function or a body hook. The snapshot accessors (Position,
// Velocity, ...) are safe at any time.
type Body struct {
	ID       uint64
	Name     string
	Kind     BodyKind
	UserData any

	// OnAttach fires when the body joins a space, OnDetach when it
	// leaves one with notification requested. OnReady fires when the
	// body has both a node and a space for the first time since either
	// was last cleared. OnStep fires after every step of the owning
	// space, on the stepping goroutine.
	OnAttach func(s *Space)
	OnDetach func(s *Space)
	OnReady  func()
	OnStep   func(dt float64)

	native *cp.Body
	shapes []*cp.Shape

	space *Space
	node  *Node
	ready bool

	mu      sync.Mutex
	snap    bodySnapshot
	pending pendingTransform
}

type pendingTransform struct {
	x, y  float64
	angle float64
	valid bool
}

func newBody(kind BodyKind, native *cp.Body) *Body {
	bodyIDCounter++
	b := &Body{ID: bodyIDCounter, Kind: kind, native: native}
	b.native.UserData = b
	return b
}

// NewBody creates a dynamic body. Panics if mass or moment is not
// positive; cp.INFINITY is a valid moment for bodies that must not
// rotate.
func NewBody(mass, moment float64) *Body {
	if mass <= 0 {
		panic("planar: body mass must be positive")
	}
	if moment <= 0 {
		panic("planar: body moment must be positive")
	}
	return newBody(BodyDynamic, cp.NewBody(mass, moment))
}

// NewKinematicBody creates a body moved by the application, typically
// through a BodyControl in kinematic mode.
func NewKinematicBody() *Body {
	return newBody(BodyKinematic, cp.NewKinematicBody())
}

// NewStaticBody creates an immovable body for level geometry.
func NewStaticBody() *Body {
	return newBody(BodyStatic, cp.NewStaticBody())
}

// PhysicsBody implements BodySource.
func (b *Body) PhysicsBody() *Body { return b }

// Native returns the underlying engine body for direct engine calls.
func (b *Body) Native() *cp.Body { return b.native }

// Space returns the space this body is a member of, or nil.
func (b *Body) Space() *Space { return b.space }

// Node returns the scene node bound to this body via a BodyControl, or
// nil.
func (b *Body) Node() *Node { return b.node }

// --- shapes ---

// AddCircle attaches a circle shape at the given local offset. If the
// body is already in a space the shape joins the simulation immediately.
func (b *Body) AddCircle(radius float64, offset Vec2) *cp.Shape {
	return b.addShape(cp.NewCircle(b.native, radius, cp.Vector{X: offset.X, Y: offset.Y}))
}

// AddBox attaches a centered box shape. radius rounds the corners.
func (b *Body) AddBox(width, height, radius float64) *cp.Shape {
	return b.addShape(cp.NewBox(b.native, width, height, radius))
}

// AddSegment attaches a thick line segment shape between two local
// points.
func (b *Body) AddSegment(a, c Vec2, radius float64) *cp.Shape {
	return b.addShape(cp.NewSegment(b.native, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: c.X, Y: c.Y}, radius))
}

func (b *Body) addShape(sh *cp.Shape) *cp.Shape {
	b.shapes = append(b.shapes, sh)
	if b.space != nil {
		b.space.Space.AddShape(sh)
	}
	return sh
}

// Shapes returns the shapes attached through this wrapper. The returned
// slice MUST NOT be mutated by the caller.
func (b *Body) Shapes() []*cp.Shape {
	return b.shapes
}

// --- live state writes ---

// SetPosition teleports the body. Not safe while a step is in flight.
func (b *Body) SetPosition(x, y float64) {
	b.native.SetPosition(cp.Vector{X: x, Y: y})
	b.publish()
}

// SetAngle sets the body's rotation in radians. Not safe while a step
// is in flight.
func (b *Body) SetAngle(radians float64) {
	b.native.SetAngle(radians)
	b.publish()
}

// SetVelocity sets the linear velocity. Not safe while a step is in
// flight.
func (b *Body) SetVelocity(vx, vy float64) {
	b.native.SetVelocity(vx, vy)
	b.publish()
}

// SetAngularVelocity sets the angular velocity in radians per second.
// Not safe while a step is in flight.
func (b *Body) SetAngularVelocity(w float64) {
	b.native.SetAngularVelocity(w)
	b.publish()
}

// ApplyImpulse applies an impulse at a world point. Not safe while a
// step is in flight.
func (b *Body) ApplyImpulse(ix, iy, atX, atY float64) {
	b.native.ApplyImpulseAtWorldPoint(cp.Vector{X: ix, Y: iy}, cp.Vector{X: atX, Y: atY})
}

// ApplyForce applies a force at a world point for the next step. Not
// safe while a step is in flight.
func (b *Body) ApplyForce(fx, fy, atX, atY float64) {
	b.native.ApplyForceAtWorldPoint(cp.Vector{X: fx, Y: fy}, cp.Vector{X: atX, Y: atY})
}

// Activate wakes a sleeping body.
func (b *Body) Activate() {
	b.native.Activate()
	b.publish()
}

// Mass returns the body's mass.
func (b *Body) Mass() float64 { return b.native.Mass() }

// SetMass changes the body's mass. Not safe while a step is in flight.
func (b *Body) SetMass(mass float64) {
	if mass <= 0 {
		panic("planar: body mass must be positive")
	}
	b.native.SetMass(mass)
}

// Moment returns the body's moment of inertia.
func (b *Body) Moment() float64 { return b.native.Moment() }

// SetMoment changes the body's moment of inertia. Not safe while a step
// is in flight.
func (b *Body) SetMoment(moment float64) {
	if moment <= 0 {
		panic("planar: body moment must be positive")
	}
	b.native.SetMoment(moment)
}

// QueueTransform requests a teleport that is applied right before the
// next step begins. Safe at any time; this is how kinematic bodies are
// driven while a parallel driver may be mid-step.
func (b *Body) QueueTransform(x, y, angle float64) {
	b.mu.Lock()
	b.pending = pendingTransform{x: x, y: y, angle: angle, valid: true}
	b.mu.Unlock()
}

// applyPending runs at the top of Space.Step on the stepping goroutine.
func (b *Body) applyPending() {
	b.mu.Lock()
	p := b.pending
	b.pending.valid = false
	b.mu.Unlock()
	if p.valid {
		b.native.SetPosition(cp.Vector{X: p.x, Y: p.y})
		b.native.SetAngle(p.angle)
	}
}

// --- snapshot reads ---

// publish copies the live engine state into the read snapshot. Called by
// the space after each step and by the teleport setters.
func (b *Body) publish() {
	pos := b.native.Position()
	vel := b.native.Velocity()
	snap := bodySnapshot{
		x:          pos.X,
		y:          pos.Y,
		angle:      b.native.Angle(),
		vx:         vel.X,
		vy:         vel.Y,
		angularVel: b.native.AngularVelocity(),
		resting:    b.native.IsSleeping(),
	}
	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
}

// Position returns the body's position from the last completed step.
func (b *Body) Position() (x, y float64) {
	b.mu.Lock()
	x, y = b.snap.x, b.snap.y
	b.mu.Unlock()
	return
}

// Angle returns the body's rotation from the last completed step.
func (b *Body) Angle() float64 {
	b.mu.Lock()
	a := b.snap.angle
	b.mu.Unlock()
	return a
}

// Velocity returns the linear velocity from the last completed step.
func (b *Body) Velocity() (vx, vy float64) {
	b.mu.Lock()
	vx, vy = b.snap.vx, b.snap.vy
	b.mu.Unlock()
	return
}

// AngularVelocity returns the angular velocity from the last completed
// step.
func (b *Body) AngularVelocity() float64 {
	b.mu.Lock()
	w := b.snap.angularVel
	b.mu.Unlock()
	return w
}

// Resting reports whether the body was sleeping after the last
// completed step.
func (b *Body) Resting() bool {
	b.mu.Lock()
	r := b.snap.resting
	b.mu.Unlock()
	return r
}

// --- lifecycle plumbing (called by Space and BodyControl) ---

func (b *Body) attachSpace(s *Space) {
	b.space = s
	if b.OnAttach != nil {
		b.OnAttach(s)
	}
	b.maybeReady()
}

func (b *Body) detachSpace(s *Space, notify bool) {
	b.space = nil
	b.ready = false
	if notify && b.OnDetach != nil {
		b.OnDetach(s)
	}
}

func (b *Body) bindNode(n *Node) {
	b.node = n
	b.maybeReady()
}

func (b *Body) unbindNode() {
	b.node = nil
	b.ready = false
}

func (b *Body) maybeReady() {
	if b.ready || b.node == nil || b.space == nil {
		return
	}
	b.ready = true
	if b.OnReady != nil {
		b.OnReady()
	}
	b.space.emitEvent(BodyEventReady, b)
}
