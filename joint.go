package planar

import "github.com/jakecoffman/cp/v2"

// JointSource is anything that can stand in for a joint when adding to
// or removing from a space. *Joint is its own source.
type JointSource interface {
	PhysicsJoint() *Joint
}

// Joint wraps an engine constraint between two bodies. Both endpoint
// bodies must be members of a space before the joint can join it.
type Joint struct {
	UserData any

	native *cp.Constraint
	a, b   *Body
	space  *Space
}

// jointNatives validates the endpoints before anything dereferences
// them.
func jointNatives(a, b *Body) (*cp.Body, *cp.Body) {
	if a == nil || b == nil {
		panic("planar: joint endpoints must not be nil")
	}
	return a.native, b.native
}

func newJoint(a, b *Body, native *cp.Constraint) *Joint {
	j := &Joint{native: native, a: a, b: b}
	j.native.UserData = j
	return j
}

// NewPinJoint keeps the distance between two anchor points fixed.
// Anchors are in each body's local space.
func NewPinJoint(a, b *Body, anchorA, anchorB Vec2) *Joint {
	na, nb := jointNatives(a, b)
	return newJoint(a, b, cp.NewPinJoint(na, nb,
		cp.Vector{X: anchorA.X, Y: anchorA.Y}, cp.Vector{X: anchorB.X, Y: anchorB.Y}))
}

// NewPivotJoint lets two bodies rotate freely around a shared world
// point.
func NewPivotJoint(a, b *Body, pivot Vec2) *Joint {
	na, nb := jointNatives(a, b)
	return newJoint(a, b, cp.NewPivotJoint(na, nb, cp.Vector{X: pivot.X, Y: pivot.Y}))
}

// NewDampedSpring connects two anchor points with a spring. Anchors are
// in each body's local space.
func NewDampedSpring(a, b *Body, anchorA, anchorB Vec2, restLength, stiffness, damping float64) *Joint {
	na, nb := jointNatives(a, b)
	return newJoint(a, b, cp.NewDampedSpring(na, nb,
		cp.Vector{X: anchorA.X, Y: anchorA.Y}, cp.Vector{X: anchorB.X, Y: anchorB.Y},
		restLength, stiffness, damping))
}

// NewSlideJoint keeps the distance between two anchor points inside
// [min, max]. Anchors are in each body's local space.
func NewSlideJoint(a, b *Body, anchorA, anchorB Vec2, min, max float64) *Joint {
	na, nb := jointNatives(a, b)
	return newJoint(a, b, cp.NewSlideJoint(na, nb,
		cp.Vector{X: anchorA.X, Y: anchorA.Y}, cp.Vector{X: anchorB.X, Y: anchorB.Y},
		min, max))
}

// PhysicsJoint implements JointSource.
func (j *Joint) PhysicsJoint() *Joint { return j }

// Native returns the underlying engine constraint for direct engine
// calls (max force, error bias, ...).
func (j *Joint) Native() *cp.Constraint { return j.native }

// Bodies returns the two endpoint bodies.
func (j *Joint) Bodies() (*Body, *Body) { return j.a, j.b }

// Space returns the space this joint is a member of, or nil.
func (j *Joint) Space() *Space { return j.space }
