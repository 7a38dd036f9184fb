package desktop

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/platform"
	"github.com/desklab-dev/uidriver/pkg/selector"
)

// Element is a live reference to one resolved tree node. Every action
// re-validates liveness first; once the underlying native element is
// destroyed the handle is permanently stale and all further actions
// return ElementNotFound. A stale handle cannot be revived - re-resolve
// through a locator instead.
type Element struct {
	eng   *engine
	node  platform.NodeRef
	stale atomic.Bool
}

func newElement(eng *engine, node platform.NodeRef) *Element {
	return &Element{eng: eng, node: node}
}

func (el *Element) ensureAlive() error {
	if el.stale.Load() {
		return core.ErrElementNotFound.WithMessage("element handle is stale")
	}
	if !el.eng.adapter.IsAlive(el.node) {
		el.stale.Store(true)
		return core.ErrElementNotFound.WithMessage("underlying element no longer exists")
	}
	return nil
}

// invoke runs one adapter action with liveness validation and error
// normalization around it.
func (el *Element) invoke(ctx context.Context, action platform.Action, args platform.ActionArgs) (*platform.ActionOutcome, error) {
	if err := el.ensureAlive(); err != nil {
		return nil, err
	}
	out, err := el.eng.adapter.Invoke(ctx, el.node, action, args)
	if err != nil {
		err = normalize(err)
		if errors.Is(err, core.ErrElementNotFound) {
			el.stale.Store(true)
		}
		return nil, err
	}
	return out, nil
}

// Attributes returns a snapshot of the element's role, name, native
// id, bounds and generic attributes. Read-only, no side effects.
func (el *Element) Attributes(ctx context.Context) (*core.ElementInfo, error) {
	if err := el.ensureAlive(); err != nil {
		return nil, err
	}
	info, err := el.eng.adapter.Attributes(ctx, el.node)
	if err != nil {
		err = normalize(err)
		if errors.Is(err, core.ErrElementNotFound) {
			el.stale.Store(true)
		}
		return nil, err
	}
	return info, nil
}

// Children returns handles to the element's direct children in tree
// order.
func (el *Element) Children(ctx context.Context) ([]*Element, error) {
	if err := el.ensureAlive(); err != nil {
		return nil, err
	}
	refs, err := el.eng.adapter.Children(ctx, el.node)
	if err != nil {
		err = normalize(err)
		if errors.Is(err, core.ErrElementNotFound) {
			el.stale.Store(true)
		}
		return nil, err
	}
	children := make([]*Element, len(refs))
	for i, ref := range refs {
		children[i] = newElement(el.eng, ref)
	}
	return children, nil
}

// Click performs a default click on the element.
func (el *Element) Click(ctx context.Context) error {
	_, err := el.invoke(ctx, platform.ActionClick, platform.ActionArgs{})
	return err
}

// Type sends text input to the element.
func (el *Element) Type(ctx context.Context, text string) error {
	_, err := el.invoke(ctx, platform.ActionTypeText, platform.ActionArgs{Text: text})
	return err
}

// Invoke triggers the element's default action (e.g. the Invoke
// pattern on Windows).
func (el *Element) Invoke(ctx context.Context) error {
	_, err := el.invoke(ctx, platform.ActionInvoke, platform.ActionArgs{})
	return err
}

// Value reads the element's value. Controls without a value pattern
// (e.g. plain buttons) yield nil, not an error.
func (el *Element) Value(ctx context.Context) (*string, error) {
	out, err := el.invoke(ctx, platform.ActionGetValue, platform.ActionArgs{})
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedOperation) {
			return nil, nil
		}
		return nil, err
	}
	return out.Text, nil
}

// SetValue writes the element's value. On controls without a value
// pattern this is UnsupportedOperation.
func (el *Element) SetValue(ctx context.Context, value string) error {
	_, err := el.invoke(ctx, platform.ActionSetValue, platform.ActionArgs{Text: value})
	return err
}

// RangeValue reads a slider-like control's value; nil for controls
// without a range pattern.
func (el *Element) RangeValue(ctx context.Context) (*float64, error) {
	out, err := el.invoke(ctx, platform.ActionGetRangeValue, platform.ActionArgs{})
	if err != nil {
		if errors.Is(err, core.ErrUnsupportedOperation) {
			return nil, nil
		}
		return nil, err
	}
	return out.Number, nil
}

// SetRangeValue writes a slider-like control's value. On controls
// without a range pattern this is UnsupportedOperation.
func (el *Element) SetRangeValue(ctx context.Context, value float64) error {
	_, err := el.invoke(ctx, platform.ActionSetRangeValue, platform.ActionArgs{Number: value})
	return err
}

// ScrollIntoView scrolls the element into the visible viewport.
// Idempotent: scrolling an already-visible element is a no-op, never
// an error.
func (el *Element) ScrollIntoView(ctx context.Context) error {
	_, err := el.invoke(ctx, platform.ActionScrollIntoView, platform.ActionArgs{})
	return err
}

// Locator returns a chained locator scoped to this element's
// descendants. Cheap: no resolution happens and no platform engine is
// constructed.
func (el *Element) Locator(sel string) (*Locator, error) {
	parsed, err := selector.Parse(sel)
	if err != nil {
		return nil, err
	}
	return &Locator{
		eng:     el.eng,
		scope:   scopeRef{kind: scopeElement, element: el},
		sel:     parsed,
		timeout: el.eng.opts.DefaultTimeout,
	}, nil
}

// meetsCondition re-reads the element's live attributes for
// visible/enabled checks; exists is satisfied by resolution itself.
func (el *Element) meetsCondition(ctx context.Context, cond condition) (bool, error) {
	if cond == condExists {
		return true, nil
	}
	info, err := el.Attributes(ctx)
	if err != nil {
		return false, err
	}
	switch cond {
	case condVisible:
		return info.Visible, nil
	case condEnabled:
		return info.Enabled, nil
	default:
		return false, core.ErrInternal.WithMessagef("unhandled condition %d", cond)
	}
}
