package planar

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandSprite CommandType = iota // DrawImage
	CommandMesh                      // DrawTriangles
)

// color32 is a compact RGBA color using float32, for render commands only.
type color32 struct {
	R, G, B, A float32
}

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type        CommandType
	Transform   [6]float32
	Color       color32
	BlendMode   BlendMode
	RenderLayer uint8
	GlobalOrder int
	treeOrder   int // assigned during traversal for stable sort

	// Sprite-only fields.
	image         *ebiten.Image // nil means the white pixel
	width, height float64

	// Mesh-only fields (slice headers, not copies of vertex data).
	meshVerts []ebiten.Vertex
	meshInds  []uint16
	meshImage *ebiten.Image
}

// affine32 converts a [6]float64 affine matrix to [6]float32.
func affine32(m [6]float64) [6]float32 {
	return [6]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3]), float32(m[4]), float32(m[5])}
}

// traverse walks the node tree depth-first, emitting render commands
// for visible, renderable leaf nodes. World transforms were finalized
// during Update; traversal composes the view matrix on top at emission,
// so multiple views can draw the same tree without fighting over node
// state.
func (s *Scene) traverse(n *Node, view [6]float64, treeOrder *int) {
	if !n.Visible || n.disposed {
		return
	}

	// Culling suppresses this node's command only. Children are always
	// traversed because their world AABBs may lie outside the parent's.
	culled := s.cullActive && n.Renderable && shouldCull(n, s.cullBounds)

	if n.Renderable && !culled {
		switch n.Type {
		case NodeTypeSprite:
			*treeOrder++
			s.commands = append(s.commands, RenderCommand{
				Type:        CommandSprite,
				Transform:   affine32(multiplyAffine(view, n.worldTransform)),
				Color:       color32{float32(n.Color.R), float32(n.Color.G), float32(n.Color.B), float32(n.Color.A * n.worldAlpha)},
				BlendMode:   n.BlendMode,
				RenderLayer: n.RenderLayer,
				GlobalOrder: n.GlobalOrder,
				treeOrder:   *treeOrder,
				image:       n.image,
				width:       n.Width,
				height:      n.Height,
			})
		case NodeTypeMesh:
			if len(n.Vertices) == 0 || len(n.Indices) == 0 {
				break
			}
			tint := Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha}
			dst := ensureTransformedVerts(n)
			transformVertices(n.Vertices, dst, multiplyAffine(view, n.worldTransform), tint)
			*treeOrder++
			s.commands = append(s.commands, RenderCommand{
				Type:        CommandMesh,
				BlendMode:   n.BlendMode,
				RenderLayer: n.RenderLayer,
				GlobalOrder: n.GlobalOrder,
				treeOrder:   *treeOrder,
				meshVerts:   dst,
				meshInds:    n.Indices,
				meshImage:   n.MeshImage,
			})
		}
	}

	for _, child := range n.sortedChildrenList() {
		s.traverse(child, view, treeOrder)
	}
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.RenderLayer != b.RenderLayer {
		return a.RenderLayer < b.RenderLayer
	}
	if a.GlobalOrder != b.GlobalOrder {
		return a.GlobalOrder < b.GlobalOrder
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches
// its high-water mark.
func (s *Scene) mergeSort() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]RenderCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := lo + width
			if mid > n {
				mid = n
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Submission ---

// commandGeoM builds the draw matrix for a sprite command: the source
// image is stretched to width x height, then the composed view*world
// transform applies.
func commandGeoM(cmd *RenderCommand, imgW, imgH int) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(cmd.width/float64(imgW), cmd.height/float64(imgH))
	var t ebiten.GeoM
	t.SetElement(0, 0, float64(cmd.Transform[0]))
	t.SetElement(1, 0, float64(cmd.Transform[1]))
	t.SetElement(0, 1, float64(cmd.Transform[2]))
	t.SetElement(1, 1, float64(cmd.Transform[3]))
	t.SetElement(0, 2, float64(cmd.Transform[4]))
	t.SetElement(1, 2, float64(cmd.Transform[5]))
	m.Concat(t)
	return m
}

// submit draws the sorted command list onto target.
func (s *Scene) submit(target *ebiten.Image) {
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandSprite:
			img := cmd.image
			if img == nil {
				img = ensureWhitePixel()
			}
			b := img.Bounds()
			var op ebiten.DrawImageOptions
			op.GeoM = commandGeoM(cmd, b.Dx(), b.Dy())
			op.Blend = cmd.BlendMode.EbitenBlend()
			// Tint is premultiplied; command alpha already includes
			// worldAlpha.
			op.ColorScale.Scale(cmd.Color.R*cmd.Color.A, cmd.Color.G*cmd.Color.A, cmd.Color.B*cmd.Color.A, cmd.Color.A)
			target.DrawImage(img, &op)
		case CommandMesh:
			img := cmd.meshImage
			if img == nil {
				img = ensureWhitePixel()
			}
			// Vertices are already transformed and tinted.
			op := ebiten.DrawTrianglesOptions{}
			op.Blend = cmd.BlendMode.EbitenBlend()
			target.DrawTriangles(cmd.meshVerts, cmd.meshInds, img, &op)
		}
	}
}
