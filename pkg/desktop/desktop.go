package desktop

import (
	"sync"

	"github.com/desklab-dev/uidriver/pkg/platform"
	"github.com/desklab-dev/uidriver/pkg/selector"
)

// Desktop is the root handle for UI automation. It owns the platform
// engine; locators and elements created from it share that engine and
// stay usable until Close.
type Desktop struct {
	eng       *engine
	closeOnce sync.Once
	closeErr  error
}

// New creates a Desktop backed by the adapter for the current OS.
func New(opts Options) (*Desktop, error) {
	adapter, err := platform.Detect()
	if err != nil {
		return nil, err
	}
	return NewWithAdapter(adapter, opts), nil
}

// NewWithAdapter creates a Desktop over an explicit adapter. The
// Desktop takes ownership: the adapter is closed when the last root
// handle is released.
func NewWithAdapter(adapter platform.Adapter, opts Options) *Desktop {
	return &Desktop{eng: newEngine(adapter, opts)}
}

// Locator builds a locator rooted at the whole desktop. The selector
// text is parsed eagerly; malformed syntax surfaces here, before any
// platform call.
func (d *Desktop) Locator(sel string) (*Locator, error) {
	parsed, err := selector.Parse(sel)
	if err != nil {
		return nil, err
	}
	return &Locator{
		eng:     d.eng,
		scope:   scopeRef{kind: scopeDesktop},
		sel:     parsed,
		timeout: d.eng.opts.DefaultTimeout,
	}, nil
}

// Application builds a locator rooted at the named application.
// Resolution fails with ElementNotFound while the application is not
// running.
func (d *Desktop) Application(name string) *Locator {
	return &Locator{
		eng:     d.eng,
		scope:   scopeRef{kind: scopeApplication, application: name},
		timeout: d.eng.opts.DefaultTimeout,
	}
}

// Close releases the platform engine. Locators and elements derived
// from this Desktop fail after the last reference is released.
func (d *Desktop) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.eng.release()
	})
	return d.closeErr
}

// scopeKind discriminates what a locator resolves against.
type scopeKind int

const (
	scopeDesktop     scopeKind = iota // Whole desktop tree
	scopeApplication                  // A single application's tree
	scopeElement                      // Descendants of a resolved element
)

// scopeRef names a resolution root. For scopeElement it is a relation,
// not ownership: the underlying native node may vanish between polls.
type scopeRef struct {
	kind        scopeKind
	application string
	element     *Element
}
