package planar

import (
	"fmt"

	"github.com/jakecoffman/cp/v2"
	"go.uber.org/zap"
)

// DebugView mirrors a space's bodies and joints as outline meshes under
// a scene node, for visual inspection of the simulation. Each Sync
// reconciles the mirror with the space: unchanged members keep their
// node instance, new members get nodes built from their shapes, and
// nodes whose member left are disposed.
//
// Attach it with Scene.AddDebugView, which syncs it every tick, or call
// Sync by hand.
type DebugView struct {
	// Styling, applied on every sync. Colors pick by body kind with
	// RestingColor overriding for sleeping dynamic bodies.
	DynamicColor   Color
	KinematicColor Color
	StaticColor    Color
	RestingColor   Color
	JointColor     Color
	// LineWidth is the outline stroke width in world units.
	LineWidth float64
	// Segments is the circle tessellation.
	Segments int
	// Layer is the RenderLayer assigned to every debug mesh.
	Layer uint8

	log   *zap.Logger
	space *Space
	root  *Node

	bodyNodes  map[*Body]*Node
	bodyNext   map[*Body]*Node
	jointNodes map[*Joint]*Node
	jointNext  map[*Joint]*Node
}

// NewDebugView creates a debug mirror for the given space. Panics if
// space is nil.
func NewDebugView(cfg Config, space *Space) *DebugView {
	if space == nil {
		panic("planar: nil space")
	}
	return &DebugView{
		DynamicColor:   Color{1, 0.6, 0.1, 1},
		KinematicColor: Color{0.3, 0.9, 0.4, 1},
		StaticColor:    Color{0.55, 0.6, 0.65, 1},
		RestingColor:   Color{0.35, 0.55, 1, 1},
		JointColor:     Color{0.9, 0.3, 0.6, 1},
		LineWidth:      1,
		Segments:       24,
		Layer:          254,
		log:            cfg.logger(),
		space:          space,
		root:           NewContainer("debug"),
		bodyNodes:      make(map[*Body]*Node),
		bodyNext:       make(map[*Body]*Node),
		jointNodes:     make(map[*Joint]*Node),
		jointNext:      make(map[*Joint]*Node),
	}
}

// Root returns the node all debug meshes hang under. Add it to the
// scene to show the mirror; DebugView keeps ownership.
func (d *DebugView) Root() *Node {
	return d.root
}

// Space returns the mirrored space.
func (d *DebugView) Space() *Space {
	return d.space
}

// Sync reconciles the debug nodes with the space's current members and
// refreshes their transforms from the latest snapshots. Safe to call
// only while no step is in flight; Scene.Update calls it at the right
// point in the tick.
func (d *DebugView) Sync() {
	for _, b := range d.space.Bodies() {
		n, ok := d.bodyNodes[b]
		if ok {
			delete(d.bodyNodes, b)
		} else {
			n = d.buildBodyNode(b)
			d.root.AddChild(n)
		}
		d.bodyNext[b] = n
		d.refreshBodyNode(n, b)
	}
	for b, n := range d.bodyNodes {
		n.Dispose()
		delete(d.bodyNodes, b)
	}
	d.bodyNodes, d.bodyNext = d.bodyNext, d.bodyNodes

	for _, j := range d.space.Joints() {
		n, ok := d.jointNodes[j]
		if ok {
			delete(d.jointNodes, j)
		} else {
			n = NewMesh("debug-joint", ensureWhitePixel(), nil, nil)
			n.RenderLayer = d.Layer
			d.root.AddChild(n)
		}
		d.jointNext[j] = n
		d.refreshJointNode(n, j)
	}
	for j, n := range d.jointNodes {
		n.Dispose()
		delete(d.jointNodes, j)
	}
	d.jointNodes, d.jointNext = d.jointNext, d.jointNodes
}

// BodyNode returns the debug node mirroring b, or nil if b is not a
// member of the space as of the last sync.
func (d *DebugView) BodyNode(b *Body) *Node {
	return d.bodyNodes[b]
}

// Dispose tears down the mirror and all its nodes.
func (d *DebugView) Dispose() {
	d.root.Dispose()
	d.bodyNodes = nil
	d.bodyNext = nil
	d.jointNodes = nil
	d.jointNext = nil
}

func (d *DebugView) buildBodyNode(b *Body) *Node {
	n := NewContainer(fmt.Sprintf("debug-body-%d", b.ID))
	for _, sh := range b.Shapes() {
		d.addShapeNodes(n, b, sh)
	}
	return n
}

// addShapeNodes appends outline meshes for one engine shape, in the
// body's local space. Unknown shape classes are logged and skipped.
func (d *DebugView) addShapeNodes(parent *Node, b *Body, sh *cp.Shape) {
	switch class := sh.Class.(type) {
	case *cp.Circle:
		local := b.native.WorldToLocal(class.TransformC())
		center := Vec2{X: local.X, Y: local.Y}
		r := class.Radius()
		ring := NewOutline("circle", CirclePoints(center, r, d.Segments), d.LineWidth)
		// A spoke from center to rim makes rotation visible.
		spoke := NewLine("spoke", center, Vec2{X: center.X + r, Y: center.Y}, d.LineWidth)
		ring.RenderLayer = d.Layer
		spoke.RenderLayer = d.Layer
		parent.AddChild(ring)
		parent.AddChild(spoke)
	case *cp.Segment:
		a := b.native.WorldToLocal(class.TransformA())
		c := b.native.WorldToLocal(class.TransformB())
		width := 2 * class.Radius()
		if width < d.LineWidth {
			width = d.LineWidth
		}
		line := NewLine("segment", Vec2{X: a.X, Y: a.Y}, Vec2{X: c.X, Y: c.Y}, width)
		line.RenderLayer = d.Layer
		parent.AddChild(line)
	case *cp.PolyShape:
		count := class.Count()
		points := make([]Vec2, count)
		for i := 0; i < count; i++ {
			v := b.native.WorldToLocal(class.TransformVert(i))
			points[i] = Vec2{X: v.X, Y: v.Y}
		}
		outline := NewOutline("poly", points, d.LineWidth)
		outline.RenderLayer = d.Layer
		parent.AddChild(outline)
	default:
		d.log.Warn("debug view: unsupported shape class",
			zap.Uint64("body", b.ID), zap.String("name", b.Name))
	}
}

func (d *DebugView) refreshBodyNode(n *Node, b *Body) {
	x, y := b.Position()
	n.X = x
	n.Y = y
	n.Rotation = b.Angle()
	n.MarkDirty()
	col := d.colorFor(b)
	for _, c := range n.Children() {
		c.Color = col
	}
}

func (d *DebugView) colorFor(b *Body) Color {
	switch b.Kind {
	case BodyStatic:
		return d.StaticColor
	case BodyKinematic:
		return d.KinematicColor
	default:
		if b.Resting() {
			return d.RestingColor
		}
		return d.DynamicColor
	}
}

// refreshJointNode rebuilds the joint's connector line between the two
// endpoint body centers. The node stays at identity, so vertices are in
// world space.
func (d *DebugView) refreshJointNode(n *Node, j *Joint) {
	a, b := j.Bodies()
	ax, ay := a.Position()
	bx, by := b.Position()
	verts, inds := buildSegmentQuad(Vec2{X: ax, Y: ay}, Vec2{X: bx, Y: by}, d.LineWidth)
	n.Vertices = verts
	n.Indices = inds
	n.InvalidateMeshAABB()
	n.Color = d.JointColor
}
