package planar

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Action is a game-defined input action. Declare actions as constants
// and bind keys to them:
//
//	const (
//		ActionJump planar.Action = iota
//		ActionLeft
//		ActionRight
//	)
type Action int

// Input maps actions to keyboard keys and tracks per-tick edge state.
// Call Update once per tick, before any reads, typically at the top of
// the scene's update function.
type Input struct {
	bindings map[Action][]ebiten.Key
	down     map[Action]bool
	prev     map[Action]bool

	// keyFunc reports whether a key is held. Swappable in tests.
	keyFunc func(ebiten.Key) bool
}

// NewInput creates an input map polling the live keyboard.
func NewInput() *Input {
	return &Input{
		bindings: make(map[Action][]ebiten.Key),
		down:     make(map[Action]bool),
		prev:     make(map[Action]bool),
		keyFunc:  ebiten.IsKeyPressed,
	}
}

// Bind adds keys to an action. Any bound key held counts as the action
// being held.
func (in *Input) Bind(a Action, keys ...ebiten.Key) {
	in.bindings[a] = append(in.bindings[a], keys...)
}

// Unbind removes all key bindings for an action.
func (in *Input) Unbind(a Action) {
	delete(in.bindings, a)
	delete(in.down, a)
	delete(in.prev, a)
}

// Update polls the keyboard and rotates edge state.
func (in *Input) Update() {
	for a, d := range in.down {
		in.prev[a] = d
	}
	for a, keys := range in.bindings {
		held := false
		for _, k := range keys {
			if in.keyFunc(k) {
				held = true
				break
			}
		}
		in.down[a] = held
	}
}

// Pressed reports whether the action is currently held.
func (in *Input) Pressed(a Action) bool {
	return in.down[a]
}

// JustPressed reports whether the action went down this tick.
func (in *Input) JustPressed(a Action) bool {
	return in.down[a] && !in.prev[a]
}

// JustReleased reports whether the action went up this tick.
func (in *Input) JustReleased(a Action) bool {
	return !in.down[a] && in.prev[a]
}

// Axis returns -1, 0 or +1 from a pair of opposing actions. Both held
// cancels to 0.
func (in *Input) Axis(neg, pos Action) float64 {
	v := 0.0
	if in.down[neg] {
		v -= 1
	}
	if in.down[pos] {
		v += 1
	}
	return v
}

// CursorWorld returns the mouse cursor position in world coordinates
// as seen through the view. A nil view returns raw screen coordinates.
func CursorWorld(v *View) (float64, float64) {
	mx, my := ebiten.CursorPosition()
	if v == nil {
		return float64(mx), float64(my)
	}
	return v.ScreenToWorld(float64(mx), float64(my))
}
