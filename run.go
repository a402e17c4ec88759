package planar

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int // logical width in pixels, default 800
	Height    int // logical height in pixels, default 600
	Resizable bool
	ShowFPS   bool // attach an FPS widget to the scene root
}

// game adapts a Scene to the ebiten game loop.
type game struct {
	scene  *Scene
	width  int
	height int
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens a window and drives the scene until the window closes or
// the scene's update function returns an error. It must be called from
// the main goroutine and does not return until the loop ends.
func Run(scene *Scene, cfg RunConfig) error {
	if scene == nil {
		panic("planar: nil scene")
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.ShowFPS {
		scene.Root().AddChild(NewFPSWidget())
	}
	return ebiten.RunGame(&game{scene: scene, width: w, height: h})
}
