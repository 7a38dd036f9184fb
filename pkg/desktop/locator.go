package desktop

import (
	"context"
	"errors"
	"time"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/selector"
)

// Locator is a lazy, immutable query descriptor: a scope, parsed
// selector stages, and a default timeout. Locators are cheap value
// objects; every chaining method returns a copy sharing the same
// platform engine, and nothing is resolved until a query method runs.
type Locator struct {
	eng     *engine
	scope   scopeRef
	sel     selector.Selector
	timeout time.Duration
}

// Locator returns a child locator whose stages are appended to the
// receiver's. The child resolves against whatever the parent stages
// match at evaluation time; nothing is resolved now, and no platform
// engine is constructed.
func (l *Locator) Locator(sub string) (*Locator, error) {
	parsed, err := selector.Parse(sub)
	if err != nil {
		return nil, err
	}
	child := *l
	child.sel = l.sel.Append(parsed)
	return &child, nil
}

// Within rebinds the locator's scope to an already-resolved element.
func (l *Locator) Within(el *Element) *Locator {
	child := *l
	child.scope = scopeRef{kind: scopeElement, element: el}
	return &child
}

// Timeout returns a copy with a different default timeout. Zero means
// a single resolution attempt with no retry.
func (l *Locator) Timeout(d time.Duration) *Locator {
	child := *l
	child.timeout = d
	return &child
}

// Selector returns the canonical selector text of this locator.
func (l *Locator) Selector() string {
	return l.sel.String()
}

// First resolves the first matching element, polling the live tree
// until the locator's timeout. Not-found after the deadline is
// reported as Timeout so callers can distinguish "never showed up"
// from a malformed selector.
func (l *Locator) First(ctx context.Context) (*Element, error) {
	return l.waitFirst(ctx, condExists)
}

// All resolves every matching element in a single pass, with no
// retry; the result may be empty. maxDepth bounds traversal cost per
// stage, 0 meaning the engine default.
func (l *Locator) All(ctx context.Context, maxDepth int) ([]*Element, error) {
	if maxDepth <= 0 {
		maxDepth = l.eng.opts.MaxDepth
	}
	root, err := l.resolveScope(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := l.eng.findAll(ctx, root, l.sel, maxDepth)
	if err != nil {
		return nil, err
	}
	elements := make([]*Element, len(nodes))
	for i, node := range nodes {
		elements[i] = newElement(l.eng, node)
	}
	return elements, nil
}

// ValidationResult reports element existence without raising.
// Error is populated only for selector or platform failures, never
// for "not found".
type ValidationResult struct {
	Exists  bool     `json:"exists" yaml:"exists"`
	Element *Element `json:"-" yaml:"-"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate is First that never fails on absence: not-found (including
// a timed-out poll) yields Exists=false with a nil error. The Go error
// is non-nil only for platform failures mid-resolution, mirrored into
// the result's Error field.
func (l *Locator) Validate(ctx context.Context) (ValidationResult, error) {
	el, err := l.waitFirst(ctx, condExists)
	switch {
	case err == nil:
		return ValidationResult{Exists: true, Element: el}, nil
	case errors.Is(err, core.ErrTimeout), errors.Is(err, core.ErrElementNotFound):
		return ValidationResult{}, nil
	default:
		return ValidationResult{Error: err.Error()}, err
	}
}

// WaitFor is First with an extra condition the found element must
// satisfy: "exists", "visible" or "enabled". Visibility and
// enablement re-read the node's live attributes on every poll. An
// unrecognized condition is InvalidArgument, raised before any
// polling.
func (l *Locator) WaitFor(ctx context.Context, condition string) (*Element, error) {
	cond, err := parseCondition(condition)
	if err != nil {
		return nil, err
	}
	return l.waitFirst(ctx, cond)
}
