package planar

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"left edge", 10, 40, true},
		{"top edge", 50, 20, true},
		// The right and bottom edges are exclusive.
		{"right edge", 110, 40, false},
		{"bottom edge", 50, 70, false},
		{"bottom-right corner", 110, 70, false},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"same rect", Rect{10, 10, 100, 100}, true},
		// Merely touching edges do not count as overlap.
		{"adjacent right", Rect{110, 10, 50, 50}, false},
		{"adjacent bottom", Rect{10, 110, 50, 50}, false},
		{"adjacent left", Rect{-50, 10, 60, 50}, false},
		{"adjacent top", Rect{10, -50, 50, 60}, false},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint left", Rect{-100, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
		{"one pixel overlap", Rect{109, 109, 50, 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

// --- BlendMode.EbitenBlend ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendNone, "BlendNone", ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.EbitenBlend()
			if got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}
}

// --- Enum constant values (catch accidental iota drift) ---

func TestEnumValues(t *testing.T) {
	// BlendMode
	if BlendNormal != 0 {
		t.Errorf("BlendNormal = %d, want 0", BlendNormal)
	}
	if BlendNone != 2 {
		t.Errorf("BlendNone = %d, want 2", BlendNone)
	}

	// NodeType
	if NodeTypeContainer != 0 {
		t.Errorf("NodeTypeContainer = %d, want 0", NodeTypeContainer)
	}
	if NodeTypeMesh != 2 {
		t.Errorf("NodeTypeMesh = %d, want 2", NodeTypeMesh)
	}

	// NotifyOrder
	if NotifyThenInsert != 0 {
		t.Errorf("NotifyThenInsert = %d, want 0", NotifyThenInsert)
	}
	if InsertThenNotify != 1 {
		t.Errorf("InsertThenNotify = %d, want 1", InsertThenNotify)
	}
}

// --- Color ---

func TestColorWhite(t *testing.T) {
	if ColorWhite.R != 1 || ColorWhite.G != 1 || ColorWhite.B != 1 || ColorWhite.A != 1 {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{1, 0.5, 0, 0.5}.toRGBA()
	want := colorRGBA{R: 127, G: 63, B: 0, A: 127}
	if got != want {
		t.Errorf("toRGBA() = %v, want %v", got, want)
	}

	if got := ColorWhite.toRGBA(); got != (colorRGBA{255, 255, 255, 255}) {
		t.Errorf("ColorWhite.toRGBA() = %v, want opaque white", got)
	}
}

func TestColorToRGBAClamps(t *testing.T) {
	got := Color{2, -1, 0.5, 3}.toRGBA()
	if got.R != 255 {
		t.Errorf("R = %d, want 255 for overdriven component", got.R)
	}
	if got.G != 0 {
		t.Errorf("G = %d, want 0 for negative component", got.G)
	}
	if got.A != 255 {
		t.Errorf("A = %d, want 255 for overdriven alpha", got.A)
	}
}

func TestColorRGBAImplementsColor(t *testing.T) {
	r, g, b, a := colorRGBA{255, 128, 0, 255}.RGBA()
	if r != 0xffff {
		t.Errorf("r = %#x, want 0xffff", r)
	}
	if g != 128*0x101 {
		t.Errorf("g = %#x, want %#x", g, 128*0x101)
	}
	if b != 0 {
		t.Errorf("b = %#x, want 0", b)
	}
	if a != 0xffff {
		t.Errorf("a = %#x, want 0xffff", a)
	}
}

// --- Config ---

func TestConfigLogger(t *testing.T) {
	if (Config{}).logger() == nil {
		t.Error("zero Config should resolve to a nop logger, not nil")
	}

	custom := zap.NewNop()
	if (Config{Logger: custom}).logger() != custom {
		t.Error("explicit logger should be passed through")
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkRectContains(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Contains(50, 40)
	}
}

func BenchmarkRectIntersects(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	other := Rect{50, 40, 80, 60}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Intersects(other)
	}
}
