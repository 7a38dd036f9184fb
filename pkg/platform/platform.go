// Package platform defines the boundary between the resolution engine
// and the OS accessibility layers (Windows UIAutomation, macOS
// Accessibility, Linux AT-SPI). One Adapter implementation exists per
// OS; the engine is written once against the interface.
package platform

import (
	"context"

	"github.com/desklab-dev/uidriver/pkg/core"
)

// NodeRef is an opaque handle to a native accessibility node. The
// underlying element may vanish at any time; callers must treat a ref
// as a relation, not ownership, and check IsAlive before acting.
type NodeRef interface{}

// Scope identifies the root a tree read starts from.
type Scope struct {
	// Application narrows the root to a single application by name.
	// Empty means the whole desktop.
	Application string
}

// Action identifies a native operation performed on a node.
type Action string

// Actions understood by adapters. Adapters return
// core.ErrUnsupportedOperation for actions the control type cannot
// perform.
const (
	ActionClick          Action = "click"
	ActionTypeText       Action = "type_text"
	ActionInvoke         Action = "invoke"
	ActionGetValue       Action = "get_value"
	ActionSetValue       Action = "set_value"
	ActionGetRangeValue  Action = "get_range_value"
	ActionSetRangeValue  Action = "set_range_value"
	ActionScrollIntoView Action = "scroll_into_view"
	ActionShowOverlay    Action = "show_overlay"
	ActionCloseOverlay   Action = "close_overlay"
)

// OverlaySpec describes a transient visual overlay drawn over a node.
type OverlaySpec struct {
	Color        uint32 // BGR color value
	Duration     int    // Milliseconds; 0 = adapter default
	Text         string // Already truncated by the caller
	TextPosition string // top, right, bottom, left, inside
	FontStyle    string // regular, bold, italic
}

// ActionArgs carries the inputs of an Invoke call. Only the fields
// relevant to the action are set.
type ActionArgs struct {
	Text    string
	Number  float64
	Overlay *OverlaySpec
}

// ActionOutcome carries the outputs of an Invoke call. Pointer fields
// are nil when the action produced no such output.
type ActionOutcome struct {
	Text    *string
	Number  *float64
	Overlay NodeRef // Handle to a drawn overlay, for ActionCloseOverlay
}

// Adapter exposes the live accessibility tree of one OS. Implementations
// must be safe for concurrent use: each node is independently
// addressable and adapters serialize or make idempotent their own
// native calls.
type Adapter interface {
	// RootNode returns the tree root for the given scope.
	RootNode(ctx context.Context, scope Scope) (NodeRef, error)

	// Children returns the direct children of a node.
	Children(ctx context.Context, node NodeRef) ([]NodeRef, error)

	// Attributes returns a point-in-time snapshot of a node's attributes.
	Attributes(ctx context.Context, node NodeRef) (*core.ElementInfo, error)

	// Invoke performs a native action on a node.
	Invoke(ctx context.Context, node NodeRef, action Action, args ActionArgs) (*ActionOutcome, error)

	// IsAlive reports whether the underlying native element still exists.
	IsAlive(node NodeRef) bool

	// Close releases the native engine object (e.g. a COM automation
	// instance). The adapter is unusable afterwards.
	Close() error
}
