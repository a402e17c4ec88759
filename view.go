package planar

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for view X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// View is the window into the world: position, zoom, rotation and the
// screen viewport it renders into. A CameraController drives a view
// through its effect chain; a bare view works on its own for fixed or
// hand-scrolled framing.
type View struct {
	// X and Y are the world-space position the view centers on.
	X, Y float64
	// Z is the view's distance from the scene plane. Orthographic
	// controllers ignore it; perspective controllers derive Zoom from it
	// every tick.
	Z float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the view rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this view renders into.
	Viewport Rect

	// CullEnabled skips nodes whose AABB doesn't intersect the view's
	// visible bounds.
	CullEnabled bool

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewView creates a view with default framing for the given viewport.
func NewView(viewport Rect) *View {
	return &View{
		Zoom:        1.0,
		Viewport:    viewport,
		CullEnabled: true,
		dirty:       true,
	}
}

// ScrollTo animates the view to the given world position over duration
// seconds. A follow effect on the same view overrides the scroll; stop
// following first.
func (v *View) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is still running.
func (v *View) Scrolling() bool {
	return v.scrollTween != nil
}

// update advances the scroll animation and dirty tracking. Called from
// Scene.Update before camera controllers run.
func (v *View) update(dt float64) {
	prevX, prevY := v.X, v.Y
	prevZoom, prevRot := v.Zoom, v.Rotation

	if v.scrollTween != nil {
		if !v.scrollTween.doneX {
			val, done := v.scrollTween.tweenX.Update(float32(dt))
			v.X = float64(val)
			v.scrollTween.doneX = done
		}
		if !v.scrollTween.doneY {
			val, done := v.scrollTween.tweenY.Update(float32(dt))
			v.Y = float64(val)
			v.scrollTween.doneY = done
		}
		if v.scrollTween.doneX && v.scrollTween.doneY {
			v.scrollTween = nil
		}
	}

	if v.X != prevX || v.Y != prevY || v.Zoom != prevZoom || v.Rotation != prevRot {
		v.dirty = true
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (v *View) computeViewMatrix() [6]float64 {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false

	cx := v.Viewport.X + v.Viewport.Width/2
	cy := v.Viewport.Y + v.Viewport.Height/2

	cos := math.Cos(-v.Rotation)
	sin := math.Sin(-v.Rotation)
	z := v.Zoom

	a := z * cos
	b := -z * sin
	c := z * sin
	d := z * cos
	tx := cx + z*(-cos*v.X+sin*v.Y)
	ty := cy + z*(-sin*v.X-cos*v.Y)

	v.viewMatrix = [6]float64{a, c, b, d, tx, ty}
	v.invViewMatrix = invertAffine(v.viewMatrix)
	return v.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	v.computeViewMatrix()
	sx, sy = transformPoint(v.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	v.computeViewMatrix()
	wx, wy = transformPoint(v.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the axis-aligned bounding rect of the view's
// visible area in world space.
func (v *View) VisibleBounds() Rect {
	v.computeViewMatrix()
	inv := v.invViewMatrix

	vx := v.Viewport.X
	vy := v.Viewport.Y
	vr := vx + v.Viewport.Width
	vb := vy + v.Viewport.Height

	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MarkDirty forces a recomputation of the view matrix.
func (v *View) MarkDirty() {
	v.dirty = true
}

// --- Culling ---

// worldAABB computes the axis-aligned bounding box for a rectangle of size (w, h)
// transformed by the given affine matrix. Zero allocations.
func worldAABB(transform [6]float64, w, h float64) Rect {
	a, b, c, d, tx, ty := transform[0], transform[2], transform[1], transform[3], transform[4], transform[5]

	// Transform four corners: (0,0), (w,0), (w,h), (0,h)
	x0, y0 := tx, ty
	x1, y1 := a*w+tx, c*w+ty
	x2, y2 := a*w+b*h+tx, c*w+d*h+ty
	x3, y3 := b*h+tx, d*h+ty

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// shouldCull returns true if the node should be skipped during
// rendering. cullBounds is the view's visible area in world space.
// Containers are never culled; nodes without a determinable size are
// kept.
func shouldCull(n *Node, cullBounds Rect) bool {
	switch n.Type {
	case NodeTypeSprite:
		aabb := worldAABB(n.worldTransform, n.Width, n.Height)
		return !aabb.Intersects(cullBounds)
	case NodeTypeMesh:
		aabb := meshWorldAABB(n, n.worldTransform)
		if aabb.Width == 0 && aabb.Height == 0 {
			return false
		}
		return !aabb.Intersects(cullBounds)
	default:
		return false
	}
}
