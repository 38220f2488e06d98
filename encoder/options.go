package encoder

import (
	"github.com/dargueta/framepack/quadtree"
	"github.com/rs/zerolog"
)

type options struct {
	codec    FrameCodec
	logger   zerolog.Logger
	observer func(FrameStat)
}

// Option configures an [Encoder].
type Option func(*options)

// WithCodec replaces the default quadtree codec.
func WithCodec(codec FrameCodec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithInitialThreshold keeps the default quadtree codec but starts it at a
// different whole-frame threshold. It has no effect combined with [WithCodec].
func WithInitialThreshold(threshold float64) Option {
	return func(o *options) {
		if splitter, ok := o.codec.(*quadtree.Splitter); ok {
			splitter.InitialThreshold = threshold
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers a callback invoked after every frame is processed.
func WithObserver(observer func(FrameStat)) Option {
	return func(o *options) {
		o.observer = observer
	}
}
