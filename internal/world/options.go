package world

import (
	"log/slog"

	"github.com/roach88/manikin/internal/core"
)

// Option configures a store.
type Option func(*runtime)

// WithLogger sets the logger dispatches are reported to.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(rt *runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithObserver adds an observer. Observers are called in the order added.
func WithObserver(o core.Observer) Option {
	return func(rt *runtime) {
		if o != nil {
			rt.observers = append(rt.observers, o)
		}
	}
}

// WithClock sets the clock that numbers dispatches. Defaults to NewClock().
func WithClock(c Clock) Option {
	return func(rt *runtime) {
		if c != nil {
			rt.clock = c
		}
	}
}

// DefaultMaxDepth bounds the nesting of sends unless WithMaxDepth says
// otherwise.
const DefaultMaxDepth = 1000

// WithMaxDepth bounds how deeply sends may nest. A dispatch beyond the limit
// fails with a HandlerFault caused by *core.DepthExceededError instead of
// exhausting the goroutine stack. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(rt *runtime) {
		if n > 0 {
			rt.maxDepth = n
		}
	}
}

// runtime is the configuration shared by a store and every World derived
// from it, including the ones returned by Init.
type runtime struct {
	logger    *slog.Logger
	observers core.Observers
	clock     Clock
	maxDepth  int
}

func newRuntime(opts []Option) *runtime {
	rt := &runtime{
		logger:   slog.Default(),
		clock:    NewClock(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}
