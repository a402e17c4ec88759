package planar

import "math"

// Affine transforms are stored as [a, b, c, d, tx, ty] where a point
// maps as x' = a*x + c*y + tx and y' = b*x + d*y + ty.

var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform builds the node's local matrix from its
// position, rotation, scale and pivot. Order is pivot, scale, rotate,
// translate.
func computeLocalTransform(n *Node) [6]float64 {
	sin, cos := math.Sincos(n.Rotation)
	a := cos * n.ScaleX
	b := sin * n.ScaleX
	c := -sin * n.ScaleY
	d := cos * n.ScaleY
	tx := n.X - (a*n.PivotX + c*n.PivotY)
	ty := n.Y - (b*n.PivotX + d*n.PivotY)
	return [6]float64{a, b, c, d, tx, ty}
}

// multiplyAffine returns p*c, the transform that applies c first and
// then p.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the inverse transform. Degenerate transforms
// (determinant near zero) invert to identity rather than blowing up.
func invertAffine(t [6]float64) [6]float64 {
	det := t[0]*t[3] - t[1]*t[2]
	if math.Abs(det) < 1e-12 {
		return identityTransform
	}
	inv := 1 / det
	return [6]float64{
		t[3] * inv,
		-t[1] * inv,
		-t[2] * inv,
		t[0] * inv,
		(t[2]*t[5] - t[3]*t[4]) * inv,
		(t[1]*t[4] - t[0]*t[5]) * inv,
	}
}

func transformPoint(t [6]float64, x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}

// updateWorldTransform recomputes the world transform and world alpha of
// n and its subtree. A node recomputes when it is dirty or when any
// ancestor recomputed this pass.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recomputed := parentRecomputed || n.transformDirty
	if recomputed {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.transformDirty = false
	}
	n.worldAlpha = parentAlpha * n.Alpha
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recomputed)
	}
}

// --- node transform accessors ---

// SetPosition moves the node in its parent's space.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.MarkDirty()
}

// SetScale sets both scale factors.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.MarkDirty()
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(radians float64) {
	n.Rotation = radians
	n.MarkDirty()
}

// SetPivot sets the local origin used for rotation and scaling.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.MarkDirty()
}

// MarkDirty flags the node so its world transform is recomputed during
// the next scene update. Descendants recompute automatically once the
// node itself does. Direct field writes (n.X = ...) need a MarkDirty
// call afterwards; the setters do it for you.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldTransform returns the node's world matrix as of the last scene
// update.
func (n *Node) WorldTransform() [6]float64 {
	return n.worldTransform
}

// WorldPosition returns the node's origin in world space as of the last
// scene update.
func (n *Node) WorldPosition() (float64, float64) {
	return n.worldTransform[4], n.worldTransform[5]
}

// WorldAlpha returns the node's effective opacity as of the last scene
// update.
func (n *Node) WorldAlpha() float64 {
	return n.worldAlpha
}

// LocalToWorld maps a point from the node's local space to world space.
func (n *Node) LocalToWorld(x, y float64) (float64, float64) {
	return transformPoint(n.worldTransform, x, y)
}

// WorldToLocal maps a point from world space into the node's local
// space.
func (n *Node) WorldToLocal(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(n.worldTransform), x, y)
}
