// Package mock provides an in-memory tree adapter for testing without a
// real OS accessibility layer. The tree is mutable so tests can
// simulate asynchronous UI rendering: attach or detach nodes while a
// resolution is polling.
package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/platform"
)

// Name is the adapter registry name for the mock.
const Name = "mock"

func init() {
	platform.Register(Name, func() (platform.Adapter, error) {
		return New(), nil
	})
}

// Node is one element in the mock tree. Fields are guarded by the
// owning adapter's lock; use Adapter.Mutate for changes after load.
type Node struct {
	Role     string
	Name     string
	NativeID string
	Bounds   core.Bounds
	Visible  bool
	Enabled  bool
	Focused  bool
	Attrs    map[string]string

	// Value is non-nil for controls with a value pattern,
	// RangeValue for slider-like controls.
	Value      *string
	RangeValue *float64

	// Deny lists actions this control type does not support.
	Deny []platform.Action

	parent   *Node
	children []*Node
	alive    bool
}

// Adapter implements platform.Adapter over an in-memory tree.
type Adapter struct {
	mu       sync.RWMutex
	root     *Node
	overlays map[string]platform.OverlaySpec
	invoked  []string // "action role/name" log for assertions
	closed   bool
}

// New creates an adapter with an empty desktop root.
func New() *Adapter {
	return &Adapter{
		root:     &Node{Role: "desktop", Name: "Desktop", Visible: true, Enabled: true, alive: true},
		overlays: make(map[string]platform.OverlaySpec),
	}
}

// overlayRef is the NodeRef returned for drawn overlays.
type overlayRef struct{ id string }

// Root returns the desktop root node.
func (a *Adapter) Root() *Node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.root
}

// RootNode implements platform.Adapter.
func (a *Adapter) RootNode(_ context.Context, scope platform.Scope) (platform.NodeRef, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if scope.Application == "" {
		return a.root, nil
	}
	for _, child := range a.root.children {
		if child.alive && child.Name == scope.Application {
			return child, nil
		}
	}
	return nil, core.ErrElementNotFound.WithMessagef("application %q not running", scope.Application)
}

// Children implements platform.Adapter.
func (a *Adapter) Children(_ context.Context, ref platform.NodeRef) ([]platform.NodeRef, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	node, err := a.node(ref)
	if err != nil {
		return nil, err
	}
	refs := make([]platform.NodeRef, 0, len(node.children))
	for _, child := range node.children {
		if child.alive {
			refs = append(refs, child)
		}
	}
	return refs, nil
}

// Attributes implements platform.Adapter.
func (a *Adapter) Attributes(_ context.Context, ref platform.NodeRef) (*core.ElementInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	node, err := a.node(ref)
	if err != nil {
		return nil, err
	}
	info := &core.ElementInfo{
		Role:     node.Role,
		Name:     node.Name,
		NativeID: node.NativeID,
		Bounds:   node.Bounds,
		Visible:  node.Visible,
		Enabled:  node.Enabled,
		Focused:  node.Focused,
	}
	if len(node.Attrs) > 0 {
		info.Attrs = make(map[string]string, len(node.Attrs))
		for k, v := range node.Attrs {
			info.Attrs[k] = v
		}
	}
	return info, nil
}

// IsAlive implements platform.Adapter.
func (a *Adapter) IsAlive(ref platform.NodeRef) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return false
	}
	node, ok := ref.(*Node)
	return ok && node.alive
}

// Invoke implements platform.Adapter.
func (a *Adapter) Invoke(_ context.Context, ref platform.NodeRef, action platform.Action, args platform.ActionArgs) (*platform.ActionOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	if action == platform.ActionCloseOverlay {
		if o, ok := ref.(overlayRef); ok {
			delete(a.overlays, o.id)
			return &platform.ActionOutcome{}, nil
		}
		return nil, core.ErrInvalidArgument.WithMessage("close_overlay requires an overlay handle")
	}

	node, err := a.node(ref)
	if err != nil {
		return nil, err
	}
	a.invoked = append(a.invoked, string(action)+" "+node.Role+"/"+node.Name)

	for _, deny := range node.Deny {
		if deny == action {
			return nil, core.ErrUnsupportedOperation.WithMessagef("%s does not support %s", node.Role, action)
		}
	}

	switch action {
	case platform.ActionClick, platform.ActionInvoke:
		return &platform.ActionOutcome{}, nil

	case platform.ActionTypeText:
		if node.Value != nil {
			v := *node.Value + args.Text
			node.Value = &v
		}
		return &platform.ActionOutcome{}, nil

	case platform.ActionGetValue:
		if node.Value == nil {
			return nil, core.ErrUnsupportedOperation.WithMessagef("%s has no value pattern", node.Role)
		}
		v := *node.Value
		return &platform.ActionOutcome{Text: &v}, nil

	case platform.ActionSetValue:
		if node.Value == nil {
			return nil, core.ErrUnsupportedOperation.WithMessagef("%s has no value pattern", node.Role)
		}
		v := args.Text
		node.Value = &v
		return &platform.ActionOutcome{}, nil

	case platform.ActionGetRangeValue:
		if node.RangeValue == nil {
			return nil, core.ErrUnsupportedOperation.WithMessagef("%s has no range pattern", node.Role)
		}
		v := *node.RangeValue
		return &platform.ActionOutcome{Number: &v}, nil

	case platform.ActionSetRangeValue:
		if node.RangeValue == nil {
			return nil, core.ErrUnsupportedOperation.WithMessagef("%s has no range pattern", node.Role)
		}
		v := args.Number
		node.RangeValue = &v
		return &platform.ActionOutcome{}, nil

	case platform.ActionScrollIntoView:
		// Scrolling an already-visible element is a no-op.
		node.Visible = true
		return &platform.ActionOutcome{}, nil

	case platform.ActionShowOverlay:
		if args.Overlay == nil {
			return nil, core.ErrInvalidArgument.WithMessage("show_overlay requires an overlay spec")
		}
		id := uuid.NewString()
		a.overlays[id] = *args.Overlay
		return &platform.ActionOutcome{Overlay: overlayRef{id: id}}, nil

	default:
		return nil, core.ErrUnsupportedOperation.WithMessagef("unknown action %q", action)
	}
}

// Close implements platform.Adapter.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.overlays = make(map[string]platform.OverlaySpec)
	return nil
}

func (a *Adapter) checkOpen() error {
	if a.closed {
		return core.ErrPlatformError.WithMessage("adapter is closed")
	}
	return nil
}

func (a *Adapter) node(ref platform.NodeRef) (*Node, error) {
	node, ok := ref.(*Node)
	if !ok {
		return nil, core.ErrInvalidArgument.WithMessagef("foreign node ref %T", ref)
	}
	if !node.alive {
		return nil, core.ErrElementNotFound.WithMessagef("%s/%s no longer exists", node.Role, node.Name)
	}
	return node, nil
}

// Attach builds the spec subtree under parent and returns its root.
// Pass nil to attach under the desktop root.
func (a *Adapter) Attach(parent *Node, spec Spec) *Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	if parent == nil {
		parent = a.root
	}
	node := spec.build()
	node.parent = parent
	parent.children = append(parent.children, node)
	return node
}

// Detach removes a node and its subtree from the tree. Handles held by
// callers become stale.
func (a *Adapter) Detach(node *Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	markDead(node)
	if node.parent == nil {
		return
	}
	siblings := node.parent.children
	for i, sibling := range siblings {
		if sibling == node {
			node.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	node.parent = nil
}

func markDead(node *Node) {
	node.alive = false
	for _, child := range node.children {
		markDead(child)
	}
}

// Mutate runs fn on a node under the adapter lock.
func (a *Adapter) Mutate(node *Node, fn func(*Node)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(node)
}

// Find returns the first live node matching fn in depth-first order,
// or nil.
func (a *Adapter) Find(fn func(*Node) bool) *Node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return find(a.root, fn)
}

// FindByNativeID is shorthand for Find on the native id.
func (a *Adapter) FindByNativeID(id string) *Node {
	return a.Find(func(n *Node) bool { return n.NativeID == id })
}

func find(node *Node, fn func(*Node) bool) *Node {
	if !node.alive {
		return nil
	}
	if fn(node) {
		return node
	}
	for _, child := range node.children {
		if got := find(child, fn); got != nil {
			return got
		}
	}
	return nil
}

// Overlays returns a snapshot of the currently drawn overlays.
func (a *Adapter) Overlays() []platform.OverlaySpec {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]platform.OverlaySpec, 0, len(a.overlays))
	for _, spec := range a.overlays {
		out = append(out, spec)
	}
	return out
}

// Invoked returns the action log, optionally filtered by prefix.
func (a *Adapter) Invoked(prefix string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []string
	for _, entry := range a.invoked {
		if prefix == "" || strings.HasPrefix(entry, prefix) {
			out = append(out, entry)
		}
	}
	return out
}
