package planar

import "math"

// ProjectionMode selects how a controller turns view state into zoom.
// The mode is fixed at construction.
type ProjectionMode uint8

const (
	// ProjectionOrthographic leaves zoom entirely to the caller and
	// ignores the view's Z.
	ProjectionOrthographic ProjectionMode = iota
	// ProjectionPerspective derives zoom from the view's Z every tick,
	// giving the flat scene a depth axis: larger distances show more of
	// the world.
	ProjectionPerspective
)

func (m ProjectionMode) String() string {
	if m == ProjectionPerspective {
		return "perspective"
	}
	return "orthographic"
}

// CameraController drives a single view through an ordered chain of
// effects. Effects run in insertion order each Update, then the
// controller applies its projection. Chain order is the composition
// order: a FollowEffect added before a ClipEffect moves first and is
// clamped after.
//
// The effect chain must not be mutated from inside an effect's Update.
type CameraController struct {
	// FOV is the vertical field of view in radians for perspective
	// projection. Ignored by orthographic controllers.
	FOV float64

	mode     ProjectionMode
	view     *View
	effects  []Effect
	disabled bool
	updating bool
}

// NewCameraController creates a controller with no view bound.
func NewCameraController(mode ProjectionMode) *CameraController {
	return &CameraController{mode: mode, FOV: math.Pi / 4}
}

// Mode returns the projection mode.
func (c *CameraController) Mode() ProjectionMode { return c.mode }

// View returns the bound view, or nil.
func (c *CameraController) View() *View { return c.view }

// SetView binds the controller to a view. The binding is set once:
// binding a different view while one is bound panics, re-binding the
// same view is a no-op, and nil resets the controller to unbound.
func (c *CameraController) SetView(v *View) {
	if v == nil {
		c.view = nil
		return
	}
	if c.view == v {
		return
	}
	if c.view != nil {
		panic("planar: camera controller is already bound to a view")
	}
	c.view = v
	if c.mode == ProjectionPerspective && v.Z == 0 {
		// Start at the distance where zoom is exactly 1.
		v.Z = v.Viewport.Height / 2 / math.Tan(c.FOV/2)
	}
}

// SetEnabled toggles the whole controller. A disabled controller leaves
// its view untouched.
func (c *CameraController) SetEnabled(v bool) { c.disabled = !v }

// Enabled reports whether Update runs the chain.
func (c *CameraController) Enabled() bool { return !c.disabled }

// AddEffect appends an effect to the chain. Panics if e is nil, already
// owned by another controller, already present in this chain, or if
// called from inside an effect's Update.
func (c *CameraController) AddEffect(e Effect) {
	if e == nil {
		panic("planar: nil effect")
	}
	if c.updating {
		panic("planar: effect chain mutated during update")
	}
	for _, ee := range c.effects {
		if ee == e {
			panic("planar: effect already added")
		}
	}
	e.bind(c)
	c.effects = append(c.effects, e)
}

// RemoveEffect removes and unbinds an effect. Returns false if the
// effect is not in the chain. Panics if called from inside an effect's
// Update.
func (c *CameraController) RemoveEffect(e Effect) bool {
	if c.updating {
		panic("planar: effect chain mutated during update")
	}
	for i, ee := range c.effects {
		if ee == e {
			copy(c.effects[i:], c.effects[i+1:])
			c.effects[len(c.effects)-1] = nil
			c.effects = c.effects[:len(c.effects)-1]
			e.bind(nil)
			return true
		}
	}
	return false
}

// Effects returns the chain in run order. The returned slice MUST NOT
// be mutated by the caller.
func (c *CameraController) Effects() []Effect {
	return c.effects
}

// EffectOfType returns the first effect in the controller's chain with
// concrete type T.
func EffectOfType[T Effect](c *CameraController) (T, bool) {
	for _, e := range c.effects {
		if t, ok := e.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Update runs the enabled effects in chain order, then applies the
// projection. No-op while disabled or unbound.
func (c *CameraController) Update(tpf float64) {
	if c.disabled || c.view == nil {
		return
	}
	c.updating = true
	for _, e := range c.effects {
		if e.Enabled() {
			e.Update(tpf)
		}
	}
	c.updating = false
	c.applyProjection()
}

// applyProjection converts the view's distance into zoom for
// perspective controllers.
func (c *CameraController) applyProjection() {
	if c.mode != ProjectionPerspective {
		return
	}
	z := c.view.Z
	if z < 1e-6 {
		z = 1e-6
	}
	zoom := c.view.Viewport.Height / 2 / (z * math.Tan(c.FOV/2))
	if zoom != c.view.Zoom {
		c.view.Zoom = zoom
		c.view.MarkDirty()
	}
}
