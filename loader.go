package planar

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DecodeFunc turns raw asset bytes into a node subtree. name is the
// asset's path and is typically used to name the returned node.
type DecodeFunc func(name string, data []byte) (*Node, error)

// Loaders is a registry of asset decoders keyed by file extension.
type Loaders struct {
	log      *zap.Logger
	decoders map[string]DecodeFunc
}

// NewLoaders creates an empty registry. Call RegisterImageDecoders for
// the built-in sprite decoders.
func NewLoaders(cfg Config) *Loaders {
	return &Loaders{
		log:      cfg.logger(),
		decoders: make(map[string]DecodeFunc),
	}
}

// Register installs a decoder for a file extension such as ".png".
// Later registrations replace earlier ones.
func (l *Loaders) Register(ext string, fn DecodeFunc) {
	if fn == nil {
		panic("planar: nil decoder")
	}
	l.decoders[strings.ToLower(ext)] = fn
}

// Load decodes an asset using the decoder registered for its
// extension. An unknown extension logs a warning and returns an empty
// container so a missing decoder never takes the scene down. A decoder
// failure is returned wrapped.
func (l *Loaders) Load(name string, data []byte) (*Node, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fn, ok := l.decoders[ext]
	if !ok {
		l.log.Warn("no decoder registered for asset",
			zap.String("name", name),
			zap.String("ext", ext))
		return NewContainer(assetName(name)), nil
	}
	n, err := fn(name, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return n, nil
}

// LoadFile reads an asset from disk and decodes it.
func (l *Loaders) LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return l.Load(path, data)
}

// RegisterImageDecoders installs sprite decoders for .png, .jpg and
// .jpeg assets.
func (l *Loaders) RegisterImageDecoders() {
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		l.Register(ext, decodeImageNode)
	}
}

func decodeImageNode(name string, data []byte) (*Node, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	eimg := ebiten.NewImageFromImage(img)
	bounds := img.Bounds()
	n := NewSprite(assetName(name), float64(bounds.Dx()), float64(bounds.Dy()))
	n.SetImage(eimg)
	return n, nil
}

// assetName derives a node name from an asset path.
func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
