package planar

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates one or more float64 fields on a Node together.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenColor) and call Update(dt) each frame. The group auto-applies
// values and marks the node dirty. If the target node is disposed, the
// group stops immediately.
//
// There is no global animation manager, callers drive Update themselves,
// typically from the node's OnUpdate hook.
type TweenGroup struct {
	bindings []tweenBinding
	target   *Node
	Done     bool

	// OnDone fires once when every tween in the group has finished.
	// It does not fire if the group stops because the target was
	// disposed.
	OnDone func()
}

type tweenBinding struct {
	tween *gween.Tween
	field *float64
}

func newTweenGroup(target *Node, n int) *TweenGroup {
	return &TweenGroup{
		bindings: make([]tweenBinding, 0, n),
		target:   target,
	}
}

func (g *TweenGroup) bind(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.bindings = append(g.bindings, tweenBinding{
		tween: gween.New(float32(*field), float32(to), duration, fn),
		field: field,
	})
}

// Update advances all tweens by dt seconds, writes values to the target
// fields and marks the node dirty. If the target node has been disposed,
// Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := range g.bindings {
		val, finished := g.bindings[i].tween.Update(dt)
		*g.bindings[i].field = float64(val)
		if !finished {
			allDone = false
		}
	}
	if g.target != nil {
		g.target.MarkDirty()
	}
	if allDone {
		g.Done = true
		if g.OnDone != nil {
			g.OnDone()
		}
	}
}

// Stop halts the group without firing OnDone.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenPosition animates node.X and node.Y to the given coordinates over
// the specified duration using the easing function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node, 2)
	g.bind(&node.X, toX, duration, fn)
	g.bind(&node.Y, toY, duration, fn)
	return g
}

// TweenScale animates node.ScaleX and node.ScaleY to the given values
// over the specified duration using the easing function.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node, 2)
	g.bind(&node.ScaleX, toSX, duration, fn)
	g.bind(&node.ScaleY, toSY, duration, fn)
	return g
}

// TweenColor animates all four components of node.Color to the target
// color over the specified duration.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node, 4)
	g.bind(&node.Color.R, to.R, duration, fn)
	g.bind(&node.Color.G, to.G, duration, fn)
	g.bind(&node.Color.B, to.B, duration, fn)
	g.bind(&node.Color.A, to.A, duration, fn)
	return g
}

// TweenAlpha animates node.Alpha to the target value over the specified
// duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node, 1)
	g.bind(&node.Alpha, to, duration, fn)
	return g
}

// TweenRotation animates node.Rotation to the target value over the
// specified duration using the easing function.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node, 1)
	g.bind(&node.Rotation, to, duration, fn)
	return g
}
