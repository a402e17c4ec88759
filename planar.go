package planar

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// NodeType describes what a node renders.
type NodeType uint8

const (
	// NodeTypeContainer renders nothing itself, it only groups children.
	NodeTypeContainer NodeType = iota
	// NodeTypeSprite renders a textured (or solid color) quad.
	NodeTypeSprite
	// NodeTypeMesh renders an arbitrary triangle list.
	NodeTypeMesh
)

// BlendMode selects how a node's pixels combine with the destination.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdd
	BlendNone
)

// EbitenBlend maps a BlendMode to the ebiten blend state used at draw time.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X, Y float64
}

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral tint.
var ColorWhite = Color{1, 1, 1, 1}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toRGBA converts to 8-bit premultiplied alpha.
func (c Color) toRGBA() colorRGBA {
	a := clamp01(c.A)
	return colorRGBA{
		R: uint8(clamp01(c.R*a) * 255),
		G: uint8(clamp01(c.G*a) * 255),
		B: uint8(clamp01(c.B*a) * 255),
		A: uint8(a * 255),
	}
}

type colorRGBA struct {
	R, G, B, A uint8
}

var _ color.Color = colorRGBA{}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// Rect is an axis-aligned rectangle in world or screen units.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}
