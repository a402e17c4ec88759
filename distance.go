package planar

// DistanceEffect holds the view at a fixed distance from the scene
// plane. Perspective controllers derive zoom from that distance after
// the effect chain runs, so changing the distance takes effect at the
// effect's next Update and never rewrites framing computed earlier in
// the same tick.
type DistanceEffect struct {
	EffectBase

	distance float64
}

// NewDistanceEffect creates the effect at the given distance. Panics if
// distance is not positive.
func NewDistanceEffect(distance float64) *DistanceEffect {
	if distance <= 0 {
		panic("planar: camera distance must be positive")
	}
	return &DistanceEffect{distance: distance}
}

// Distance returns the maintained distance.
func (d *DistanceEffect) Distance() float64 {
	return d.distance
}

// SetDistance changes the maintained distance. Panics if v is not
// positive.
func (d *DistanceEffect) SetDistance(v float64) {
	if v <= 0 {
		panic("planar: camera distance must be positive")
	}
	d.distance = v
}

// Update implements Effect.
func (d *DistanceEffect) Update(tpf float64) {
	v := d.view()
	if v == nil {
		return
	}
	if v.Z != d.distance {
		v.Z = d.distance
		v.MarkDirty()
	}
}
