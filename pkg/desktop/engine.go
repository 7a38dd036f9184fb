// Package desktop implements the selector resolution engine: chainable
// locators that evaluate declarative selectors against a live
// accessibility tree with retry-until-timeout semantics, and the
// element handles resulting from a resolution.
package desktop

import (
	"sync/atomic"
	"time"

	"github.com/desklab-dev/uidriver/pkg/platform"
)

// Tuning defaults. The poll interval matches the original sub-100ms
// scan target; both are overridable through Options.
const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// Options tunes the resolution engine.
type Options struct {
	// DefaultTimeout applies to locators that never called Timeout.
	DefaultTimeout time.Duration
	// PollInterval is the delay between resolution attempts.
	PollInterval time.Duration
	// MaxDepth bounds tree traversal per stage. 0 = unbounded.
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.DefaultTimeout <= 0 {
		o.DefaultTimeout = defaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	return o
}

// engine pairs the platform adapter with its tuning. Constructing the
// native adapter is expensive, so one engine is shared by every
// locator and element derived from a Desktop; chaining a locator only
// copies the pointer. The reference count keeps the adapter open until
// the last root handle releases it.
type engine struct {
	adapter platform.Adapter
	opts    Options
	refs    int32
}

func newEngine(adapter platform.Adapter, opts Options) *engine {
	return &engine{
		adapter: adapter,
		opts:    opts.withDefaults(),
		refs:    1,
	}
}

func (e *engine) retain() {
	atomic.AddInt32(&e.refs, 1)
}

// release decrements the reference count and tears the adapter down
// when it reaches zero.
func (e *engine) release() error {
	if atomic.AddInt32(&e.refs, -1) == 0 {
		return e.adapter.Close()
	}
	return nil
}
