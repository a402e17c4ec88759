package planar

// Effect is one link in a CameraController's chain. Effects run in
// insertion order every controller update and mutate the controller's
// view. An effect instance belongs to at most one controller at a time.
type Effect interface {
	// Update mutates the controller's view. tpf is the tick duration in
	// seconds.
	Update(tpf float64)
	// SetEnabled toggles the effect without removing it from the chain.
	SetEnabled(v bool)
	// Enabled reports whether Update runs.
	Enabled() bool

	// bind ties the effect to its owning controller. Implementations
	// embed EffectBase.
	bind(c *CameraController)
}

// EffectBase carries the bookkeeping every effect shares. Embed it and
// implement Update to build a custom effect. The zero value is enabled
// and unowned.
type EffectBase struct {
	disabled bool
	cam      *CameraController
}

// SetEnabled toggles the effect.
func (e *EffectBase) SetEnabled(v bool) { e.disabled = !v }

// Enabled reports whether the effect runs during controller updates.
func (e *EffectBase) Enabled() bool { return !e.disabled }

// Controller returns the controller that owns the effect, or nil.
func (e *EffectBase) Controller() *CameraController { return e.cam }

func (e *EffectBase) bind(c *CameraController) {
	if c != nil && e.cam != nil && e.cam != c {
		panic("planar: effect already belongs to another controller")
	}
	e.cam = c
}

// view returns the owning controller's view, or nil before SetView.
func (e *EffectBase) view() *View {
	if e.cam == nil {
		return nil
	}
	return e.cam.view
}
