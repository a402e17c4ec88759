package planar

// FollowEffect keeps the view centered on a target node's world
// position. When a ClipEffect sits on the same controller, the follow
// target is routed through its clamp first, so the view never chases a
// point it would be clamped away from.
type FollowEffect struct {
	EffectBase

	// OffsetX and OffsetY shift the view relative to the target.
	OffsetX, OffsetY float64

	// Interpolation is the per-second approach rate toward the target.
	// The view covers Interpolation*tpf of the remaining distance each
	// tick; zero or negative snaps immediately.
	Interpolation float64

	target       *Node
	lastX, lastY float64
}

// NewFollowEffect creates a follow effect tracking the given node. The
// target may be nil and set later.
func NewFollowEffect(target *Node) *FollowEffect {
	return &FollowEffect{target: target}
}

// SetTarget switches the tracked node. Passing nil stops tracking; the
// view keeps converging on the target's last known position.
func (f *FollowEffect) SetTarget(n *Node) {
	f.target = n
}

// Target returns the tracked node, or nil.
func (f *FollowEffect) Target() *Node {
	return f.target
}

// Update implements Effect. A disposed target behaves as if the target
// had been cleared.
func (f *FollowEffect) Update(tpf float64) {
	v := f.view()
	if v == nil {
		return
	}
	if f.target != nil {
		if f.target.IsDisposed() {
			f.target = nil
		} else {
			f.lastX = f.target.worldTransform[4]
			f.lastY = f.target.worldTransform[5]
		}
	}
	tx := f.lastX + f.OffsetX
	ty := f.lastY + f.OffsetY
	if clip, ok := EffectOfType[*ClipEffect](f.cam); ok && clip.Enabled() {
		tx, ty = clip.Clamp(tx, ty)
	}
	if f.Interpolation <= 0 {
		v.X = tx
		v.Y = ty
	} else {
		k := f.Interpolation * tpf
		if k > 1 {
			k = 1
		}
		v.X += (tx - v.X) * k
		v.Y += (ty - v.Y) * k
	}
	v.MarkDirty()
}
