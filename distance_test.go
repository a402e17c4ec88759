package planar

import (
	"math"
	"testing"
)

// --- construction ---

func TestNewDistanceEffect(t *testing.T) {
	d := NewDistanceEffect(620)
	if d.Distance() != 620 {
		t.Errorf("Distance = %v, want 620", d.Distance())
	}
}

func TestNewDistanceEffectBadPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for non-positive distance, got none")
		}
	}()
	NewDistanceEffect(0)
}

func TestDistanceSetDistance(t *testing.T) {
	d := NewDistanceEffect(620)
	d.SetDistance(300)
	if d.Distance() != 300 {
		t.Errorf("Distance = %v, want 300", d.Distance())
	}
}

func TestDistanceSetDistanceBadPanics(t *testing.T) {
	d := NewDistanceEffect(620)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for negative distance, got none")
		}
	}()
	d.SetDistance(-1)
}

// --- holding the view ---

func TestDistanceHoldsZ(t *testing.T) {
	c := NewCameraController(ProjectionOrthographic)
	v := NewView(Rect{Width: 800, Height: 600})
	c.SetView(v)
	c.AddEffect(NewDistanceEffect(620))

	c.Update(1.0 / 60.0)
	if v.Z != 620 {
		t.Errorf("Z = %v, want 620", v.Z)
	}

	// The effect pins Z against outside writes.
	v.Z = 10
	c.Update(1.0 / 60.0)
	if v.Z != 620 {
		t.Errorf("Z = %v after outside write, want 620", v.Z)
	}
}

func TestDistanceDrivesPerspectiveZoom(t *testing.T) {
	c := NewCameraController(ProjectionPerspective)
	v := NewView(Rect{Width: 800, Height: 600})
	c.SetView(v)

	d := NewDistanceEffect(620)
	c.AddEffect(d)

	c.Update(1.0 / 60.0)
	want := 300 / (620 * math.Tan(math.Pi/8))
	if !approxEqual(v.Zoom, want, 1e-9) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, want)
	}

	// Pull in closer: more zoom next tick.
	d.SetDistance(310)
	c.Update(1.0 / 60.0)
	want = 300 / (310 * math.Tan(math.Pi/8))
	if !approxEqual(v.Zoom, want, 1e-9) {
		t.Errorf("Zoom = %v after SetDistance, want %v", v.Zoom, want)
	}
}

// --- full chain ---

func TestFollowClipDistanceChain(t *testing.T) {
	c := NewCameraController(ProjectionPerspective)
	v := NewView(Rect{Width: 800, Height: 600})
	c.SetView(v)

	target := NewContainer("target")
	target.worldTransform = [6]float64{1, 0, 0, 1, 10, 10}

	clip := NewClipEffect()
	clip.SetRange(Vec2{X: 0, Y: 0}, Vec2{X: 5, Y: 5})

	c.AddEffect(NewFollowEffect(target))
	c.AddEffect(clip)
	c.AddEffect(NewDistanceEffect(620))

	c.Update(1.0 / 60.0)

	// Follow chased the clamped target, clip held it, distance set Z and
	// the projection turned that into zoom.
	if v.X != 5 || v.Y != 5 {
		t.Errorf("view = (%v, %v), want (5, 5)", v.X, v.Y)
	}
	if v.Z != 620 {
		t.Errorf("Z = %v, want 620", v.Z)
	}
	wantZoom := 300 / (620 * math.Tan(math.Pi/8))
	if !approxEqual(v.Zoom, wantZoom, 1e-9) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, wantZoom)
	}
}
