package planar

import "math"

// ClipEffect clamps the view position into an axis-aligned range. The
// clamp only engages once both corners have been set; with either
// corner missing the effect passes everything through unchanged.
type ClipEffect struct {
	EffectBase

	min, max       Vec2
	hasMin, hasMax bool
}

// NewClipEffect creates a clip effect with no range set.
func NewClipEffect() *ClipEffect {
	return &ClipEffect{}
}

// SetMin sets the lower corner of the clamp range.
func (c *ClipEffect) SetMin(x, y float64) {
	c.min = Vec2{X: x, Y: y}
	c.hasMin = true
}

// SetMax sets the upper corner of the clamp range.
func (c *ClipEffect) SetMax(x, y float64) {
	c.max = Vec2{X: x, Y: y}
	c.hasMax = true
}

// SetRange sets both corners at once.
func (c *ClipEffect) SetRange(min, max Vec2) {
	c.min = min
	c.max = max
	c.hasMin = true
	c.hasMax = true
}

// ClearRange unsets both corners, disengaging the clamp.
func (c *ClipEffect) ClearRange() {
	c.hasMin = false
	c.hasMax = false
}

// Clamp returns the point clamped into [min, max]. With either corner
// unset the point passes through unchanged. FollowEffect routes its
// target through here when both effects share a controller.
func (c *ClipEffect) Clamp(x, y float64) (float64, float64) {
	if !c.hasMin || !c.hasMax {
		return x, y
	}
	x = math.Max(c.min.X, math.Min(x, c.max.X))
	y = math.Max(c.min.Y, math.Min(y, c.max.Y))
	return x, y
}

// Update implements Effect.
func (c *ClipEffect) Update(tpf float64) {
	v := c.view()
	if v == nil || !c.hasMin || !c.hasMax {
		return
	}
	x, y := c.Clamp(v.X, v.Y)
	if x != v.X || y != v.Y {
		v.X = x
		v.Y = y
		v.MarkDirty()
	}
}
