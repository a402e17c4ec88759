package planar

import "go.uber.org/zap"

// Config carries the cross-cutting settings a component receives at
// construction time. The zero value is valid: logging is discarded and
// debug checks are off.
//
// Components capture the resolved logger and debug flag when they are
// created, so changing a Config afterwards has no effect on them.
type Config struct {
	// Logger receives warnings about recoverable misuse (unknown loaders,
	// out-of-bounds bodies, joints detached with their bodies) and, when
	// Debug is set, per-frame diagnostics. Nil discards everything.
	Logger *zap.Logger

	// Debug enables consistency checks that panic on misuse which would
	// otherwise corrupt state silently, such as mutating a space while it
	// is stepping.
	Debug bool
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
