package planar

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// transformVertices applies an affine transform and color tint to src vertices,
// writing the result into dst. dst must be at least len(src) in length.
//
// Color components are multiplied (vertex color * tint). The tint's alpha
// already has worldAlpha baked in, so no double-alpha correction is needed.
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, tint Color) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	cr := float32(tint.R)
	cg := float32(tint.G)
	cb := float32(tint.B)
	ca := float32(tint.A)

	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * cr * ca,
			ColorG: s.ColorG * cg * ca,
			ColorB: s.ColorB * cb * ca,
			ColorA: s.ColorA * ca,
		}
	}
}

// computeMeshAABB scans DstX/DstY of the given vertices and returns
// the axis-aligned bounding box in local space.
func computeMeshAABB(verts []ebiten.Vertex) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	minX := float64(verts[0].DstX)
	minY := float64(verts[0].DstY)
	maxX := minX
	maxY := minY
	for i := 1; i < len(verts); i++ {
		x := float64(verts[i].DstX)
		y := float64(verts[i].DstY)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ensureTransformedVerts grows the node's transformedVerts buffer to fit
// len(n.Vertices), using a high-water-mark strategy (never shrinks).
func ensureTransformedVerts(n *Node) []ebiten.Vertex {
	need := len(n.Vertices)
	if cap(n.transformedVerts) < need {
		n.transformedVerts = make([]ebiten.Vertex, need)
	}
	n.transformedVerts = n.transformedVerts[:need]
	return n.transformedVerts
}

// InvalidateMeshAABB marks the mesh's cached AABB as needing recomputation.
// Call this after modifying Vertices.
func (n *Node) InvalidateMeshAABB() {
	n.meshAABBDirty = true
}

func (n *Node) recomputeMeshAABB() {
	if !n.meshAABBDirty {
		return
	}
	n.meshAABB = computeMeshAABB(n.Vertices)
	n.meshAABBDirty = false
}

// meshWorldAABB transforms the four corners of the mesh's local AABB and
// returns the enclosing rectangle.
func meshWorldAABB(n *Node, transform [6]float64) Rect {
	n.recomputeMeshAABB()
	aabb := n.meshAABB
	if aabb.Width == 0 && aabb.Height == 0 {
		return Rect{}
	}
	x0 := aabb.X
	y0 := aabb.Y
	x1 := aabb.X + aabb.Width
	y1 := aabb.Y + aabb.Height

	cx0, cy0 := transformPoint(transform, x0, y0)
	cx1, cy1 := transformPoint(transform, x1, y0)
	cx2, cy2 := transformPoint(transform, x1, y1)
	cx3, cy3 := transformPoint(transform, x0, y1)

	minX := math.Min(math.Min(cx0, cx1), math.Min(cx2, cx3))
	minY := math.Min(math.Min(cy0, cy1), math.Min(cy2, cy3))
	maxX := math.Max(math.Max(cx0, cx1), math.Max(cx2, cx3))
	maxY := math.Max(math.Max(cy0, cy1), math.Max(cy2, cy3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- White pixel singleton (no sync.Once; rendering runs on the game goroutine) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by untextured meshes and solid color sprites.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// --- Geometry builders ---

func solidVertex(x, y float64) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: 1,
		ColorG: 1,
		ColorB: 1,
		ColorA: 1,
	}
}

// buildPolygonFan triangulates a convex polygon as a fan around vertex 0.
// Returns nil slices for fewer than 3 points.
func buildPolygonFan(points []Vec2) ([]ebiten.Vertex, []uint16) {
	if len(points) < 3 {
		return nil, nil
	}
	verts := make([]ebiten.Vertex, len(points))
	for i, p := range points {
		verts[i] = solidVertex(p.X, p.Y)
	}
	inds := make([]uint16, 0, 3*(len(points)-2))
	for i := 1; i < len(points)-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	return verts, inds
}

// buildClosedRibbon builds a closed outline loop of the given stroke width
// around the polygon described by points. Each point expands to an outer
// and an inner vertex along the averaged edge direction's normal.
// Returns nil slices for fewer than 3 points.
func buildClosedRibbon(points []Vec2, width float64) ([]ebiten.Vertex, []uint16) {
	count := len(points)
	if count < 3 {
		return nil, nil
	}
	half := width / 2
	verts := make([]ebiten.Vertex, 2*count)
	for i, p := range points {
		prev := points[(i-1+count)%count]
		next := points[(i+1)%count]
		tx := next.X - prev.X
		ty := next.Y - prev.Y
		length := math.Hypot(tx, ty)
		if length < 1e-9 {
			tx, ty = 1, 0
		} else {
			tx /= length
			ty /= length
		}
		nx, ny := -ty, tx
		verts[2*i] = solidVertex(p.X+nx*half, p.Y+ny*half)
		verts[2*i+1] = solidVertex(p.X-nx*half, p.Y-ny*half)
	}
	inds := make([]uint16, 0, 6*count)
	for i := 0; i < count; i++ {
		j := (i + 1) % count
		a := uint16(2 * i)
		b := uint16(2*i + 1)
		c := uint16(2 * j)
		d := uint16(2*j + 1)
		inds = append(inds, a, b, c, c, b, d)
	}
	return verts, inds
}

// buildSegmentQuad builds a thick line from a to b.
func buildSegmentQuad(a, b Vec2, width float64) ([]ebiten.Vertex, []uint16) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return nil, nil
	}
	half := width / 2
	nx := -dy / length * half
	ny := dx / length * half
	verts := []ebiten.Vertex{
		solidVertex(a.X+nx, a.Y+ny),
		solidVertex(a.X-nx, a.Y-ny),
		solidVertex(b.X+nx, b.Y+ny),
		solidVertex(b.X-nx, b.Y-ny),
	}
	inds := []uint16{0, 1, 2, 2, 1, 3}
	return verts, inds
}

// CirclePoints returns segments points evenly spaced on a circle,
// starting at angle 0. Useful with NewPolygon and NewOutline.
func CirclePoints(center Vec2, radius float64, segments int) []Vec2 {
	if segments < 3 {
		segments = 3
	}
	points := make([]Vec2, segments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		sin, cos := math.Sincos(angle)
		points[i] = Vec2{X: center.X + cos*radius, Y: center.Y + sin*radius}
	}
	return points
}

// NewPolygon creates a filled convex polygon mesh node. Fewer than 3
// points produce an empty mesh that renders nothing.
func NewPolygon(name string, points []Vec2) *Node {
	verts, inds := buildPolygonFan(points)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}

// NewOutline creates a closed outline mesh node with the given stroke
// width. Fewer than 3 points produce an empty mesh. Panics if width is
// not positive.
func NewOutline(name string, points []Vec2, width float64) *Node {
	if width <= 0 {
		panic("planar: outline width must be positive")
	}
	verts, inds := buildClosedRibbon(points, width)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}

// NewLine creates a thick line segment mesh node from a to b. A
// zero-length segment produces an empty mesh. Panics if width is not
// positive.
func NewLine(name string, a, b Vec2, width float64) *Node {
	if width <= 0 {
		panic("planar: line width must be positive")
	}
	verts, inds := buildSegmentQuad(a, b, width)
	return NewMesh(name, ensureWhitePixel(), verts, inds)
}
