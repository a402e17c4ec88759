package planar

import (
	"github.com/jakecoffman/cp/v2"
	"go.uber.org/zap"
)

// NotifyOrder selects when a body learns about its new space relative to
// the membership insert during AddBody.
type NotifyOrder uint8

const (
	// NotifyThenInsert (the default) fires the body's attach hooks
	// before the body becomes visible in the space's collections.
	NotifyThenInsert NotifyOrder = iota
	// InsertThenNotify inserts first, so attach hooks already observe
	// the body as a member when they run.
	InsertThenNotify
)

// BodyEventKind tags a body lifecycle event.
type BodyEventKind uint8

const (
	// BodyEventAdded fires after AddBody completes.
	BodyEventAdded BodyEventKind = iota
	// BodyEventReady fires when a body first has both a node and a
	// space.
	BodyEventReady
	// BodyEventRemoved fires after RemoveBody completes.
	BodyEventRemoved
)

func (t BodyEventKind) String() string {
	switch t {
	case BodyEventAdded:
		return "added"
	case BodyEventReady:
		return "ready"
	case BodyEventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// BodyEvent describes a body lifecycle change in a space.
type BodyEvent struct {
	Type  BodyEventKind
	Body  *Body
	Space *Space
}

// EventStore receives body lifecycle events, typically to mirror them
// into an entity component world. See the ecs subpackage.
type EventStore interface {
	EmitEvent(BodyEvent)
}

// Space extends the engine's simulation world with membership tracking,
// scene binding and a stepping contract that tolerates a parallel
// driver. The engine API is promoted, so gravity, iterations and the
// ground StaticBody are reachable directly on a *Space.
//
// Membership methods (AddBody, RemoveBody, AddJoint, ...) and Step must
// all be called from the same goroutine unless a Driver owns the
// stepping; see Driver for the parallel contract.
type Space struct {
	*cp.Space

	log   *zap.Logger
	debug bool

	bodies  []*Body
	members map[*Body]struct{}
	joints  []*Joint

	speed float64

	bounds        Rect
	boundsEnabled bool
	outOfBounds   func(*Body)

	events EventStore

	hookBuf   []*Body
	stepping  bool
	stepCount uint64
}

// NewSpace creates an empty simulation world. Engine defaults (no
// gravity, 10 iterations, sleeping disabled) are kept; set what you need
// through the promoted engine API.
func NewSpace(cfg Config) *Space {
	s := &Space{
		Space:   cp.NewSpace(),
		log:     cfg.logger(),
		debug:   cfg.Debug,
		members: make(map[*Body]struct{}),
		speed:   1,
	}
	s.outOfBounds = func(b *Body) {
		s.log.Warn("body left space bounds, removing",
			zap.Uint64("body", b.ID), zap.String("name", b.Name))
		s.RemoveBody(b, true)
	}
	return s
}

func resolveBody(src BodySource) *Body {
	if src == nil {
		return nil
	}
	return src.PhysicsBody()
}

func resolveJoint(src JointSource) *Joint {
	if src == nil {
		return nil
	}
	return src.PhysicsJoint()
}

// --- body membership ---

// AddBody adds a body to the simulation. The order parameter selects
// whether the body's attach hooks run before or after the body becomes
// queryable through Bodies and Contains; pass NotifyThenInsert when in
// doubt.
//
// A nil source, a body that is already a member, or a body owned by
// another space is logged and ignored.
func (s *Space) AddBody(src BodySource, order NotifyOrder) {
	b := resolveBody(src)
	if b == nil {
		s.log.Warn("add body: nil source")
		return
	}
	if b.space == s {
		s.log.Warn("add body: already a member",
			zap.Uint64("body", b.ID), zap.String("name", b.Name))
		return
	}
	if b.space != nil {
		s.log.Warn("add body: body belongs to another space",
			zap.Uint64("body", b.ID), zap.String("name", b.Name))
		return
	}
	if s.debug && s.stepping {
		panic("planar: AddBody while the space is stepping")
	}
	switch order {
	case InsertThenNotify:
		s.insertBody(b)
		b.attachSpace(s)
	default:
		b.attachSpace(s)
		s.insertBody(b)
	}
	s.emitEvent(BodyEventAdded, b)
}

func (s *Space) insertBody(b *Body) {
	s.bodies = append(s.bodies, b)
	s.members[b] = struct{}{}
	s.Space.AddBody(b.native)
	for _, sh := range b.shapes {
		s.Space.AddShape(sh)
	}
	b.publish()
}

// RemoveBody removes a body from the simulation. Joints attached to the
// body are removed with it. The body's space back-reference is always
// cleared on success; notify controls whether the OnDetach hook fires.
// Returns false, mutating nothing, if the body is not a member.
func (s *Space) RemoveBody(src BodySource, notify bool) bool {
	b := resolveBody(src)
	if b == nil {
		s.log.Warn("remove body: nil source")
		return false
	}
	if _, ok := s.members[b]; !ok {
		return false
	}
	if s.debug && s.stepping {
		panic("planar: RemoveBody while the space is stepping")
	}
	for i := len(s.joints) - 1; i >= 0; i-- {
		j := s.joints[i]
		if j.a == b || j.b == b {
			s.log.Warn("removing joint attached to removed body",
				zap.Uint64("body", b.ID), zap.String("name", b.Name))
			s.removeJoint(j)
		}
	}
	for _, sh := range b.shapes {
		s.Space.RemoveShape(sh)
	}
	s.Space.RemoveBody(b.native)
	delete(s.members, b)
	for i, bb := range s.bodies {
		if bb == b {
			copy(s.bodies[i:], s.bodies[i+1:])
			s.bodies[len(s.bodies)-1] = nil
			s.bodies = s.bodies[:len(s.bodies)-1]
			break
		}
	}
	b.detachSpace(s, notify)
	s.emitEvent(BodyEventRemoved, b)
	return true
}

// Bodies returns the member bodies in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (s *Space) Bodies() []*Body {
	return s.bodies
}

// NumBodies returns the number of member bodies.
func (s *Space) NumBodies() int {
	return len(s.bodies)
}

// Contains reports whether b is a member of this space.
func (s *Space) Contains(b *Body) bool {
	_, ok := s.members[b]
	return ok
}

// --- joint membership ---

// AddJoint adds a joint to the simulation. Panics if either endpoint
// body is not already a member of this space. A nil source or a joint
// that already belongs to a space is logged and ignored.
func (s *Space) AddJoint(src JointSource) {
	j := resolveJoint(src)
	if j == nil {
		s.log.Warn("add joint: nil source")
		return
	}
	if j.space == s {
		s.log.Warn("add joint: already a member")
		return
	}
	if j.space != nil {
		s.log.Warn("add joint: joint belongs to another space")
		return
	}
	if j.a.space != s || j.b.space != s {
		panic("planar: joint endpoints must be members of the space")
	}
	if s.debug && s.stepping {
		panic("planar: AddJoint while the space is stepping")
	}
	s.joints = append(s.joints, j)
	j.space = s
	s.Space.AddConstraint(j.native)
}

func (s *Space) removeJoint(j *Joint) {
	s.Space.RemoveConstraint(j.native)
	for i, jj := range s.joints {
		if jj == j {
			copy(s.joints[i:], s.joints[i+1:])
			s.joints[len(s.joints)-1] = nil
			s.joints = s.joints[:len(s.joints)-1]
			break
		}
	}
	j.space = nil
}

// RemoveJoint removes a joint from the simulation. Returns false,
// mutating nothing, if the joint is not a member.
func (s *Space) RemoveJoint(src JointSource) bool {
	j := resolveJoint(src)
	if j == nil {
		s.log.Warn("remove joint: nil source")
		return false
	}
	if j.space != s {
		return false
	}
	if s.debug && s.stepping {
		panic("planar: RemoveJoint while the space is stepping")
	}
	s.removeJoint(j)
	return true
}

// Joints returns the member joints in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (s *Space) Joints() []*Joint {
	return s.joints
}

// --- stepping ---

// SetSpeed sets the simulation speed multiplier. The change applies
// from the next step; a step already in progress keeps the old value.
// Negative values are clamped to zero (paused).
func (s *Space) SetSpeed(mult float64) {
	if mult < 0 {
		s.log.Warn("space speed clamped to zero", zap.Float64("requested", mult))
		mult = 0
	}
	s.speed = mult
}

// Speed returns the simulation speed multiplier.
func (s *Space) Speed() float64 {
	return s.speed
}

// StepCount returns the number of completed steps.
func (s *Space) StepCount() uint64 {
	return s.stepCount
}

// Step advances the simulation by dt seconds scaled by the speed
// multiplier, publishes every body's read snapshot, then runs OnStep
// hooks and the bounds policy. Hooks run on the stepping goroutine and
// receive the scaled dt; they may remove bodies in sequential use, but
// must not touch the space when a parallel driver is stepping it.
func (s *Space) Step(dt float64) {
	if s.stepping {
		panic("planar: space step is not re-entrant")
	}
	s.stepping = true
	scaled := dt * s.speed
	for _, b := range s.bodies {
		b.applyPending()
	}
	s.Space.Step(scaled)
	for _, b := range s.bodies {
		b.publish()
	}
	s.stepping = false
	s.stepCount++

	s.hookBuf = s.hookBuf[:0]
	s.hookBuf = append(s.hookBuf, s.bodies...)
	for _, b := range s.hookBuf {
		if b.OnStep != nil && b.space == s {
			b.OnStep(scaled)
		}
	}
	if s.boundsEnabled {
		s.enforceBounds()
	}
}

// --- bounds policy ---

// SetBounds enables the out-of-bounds policy for dynamic and kinematic
// bodies whose position leaves r after a step.
func (s *Space) SetBounds(r Rect) {
	s.bounds = r
	s.boundsEnabled = true
}

// ClearBounds disables the out-of-bounds policy.
func (s *Space) ClearBounds() {
	s.boundsEnabled = false
}

// SetOutOfBounds replaces the out-of-bounds handler. The default logs a
// warning and removes the body. Passing nil restores the default.
func (s *Space) SetOutOfBounds(fn func(*Body)) {
	if fn == nil {
		fn = func(b *Body) {
			s.log.Warn("body left space bounds, removing",
				zap.Uint64("body", b.ID), zap.String("name", b.Name))
			s.RemoveBody(b, true)
		}
	}
	s.outOfBounds = fn
}

func (s *Space) enforceBounds() {
	s.hookBuf = s.hookBuf[:0]
	s.hookBuf = append(s.hookBuf, s.bodies...)
	for _, b := range s.hookBuf {
		if b.space != s || b.Kind == BodyStatic {
			continue
		}
		x, y := b.Position()
		if !s.bounds.Contains(x, y) {
			s.outOfBounds(b)
		}
	}
}

// --- events ---

// SetEventStore wires body lifecycle events to a store. Pass nil to
// stop emitting.
func (s *Space) SetEventStore(store EventStore) {
	s.events = store
}

func (s *Space) emitEvent(t BodyEventKind, b *Body) {
	if s.events != nil {
		s.events.EmitEvent(BodyEvent{Type: t, Body: b, Space: s})
	}
}

// --- teardown ---

// Destroy removes every joint and body, firing detach hooks. The space
// must not be stepped afterwards.
func (s *Space) Destroy() {
	for len(s.joints) > 0 {
		s.removeJoint(s.joints[len(s.joints)-1])
	}
	for len(s.bodies) > 0 {
		s.RemoveBody(s.bodies[len(s.bodies)-1], true)
	}
}
