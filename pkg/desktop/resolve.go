package desktop

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/platform"
	"github.com/desklab-dev/uidriver/pkg/selector"
)

// errNoMatch signals one unsuccessful resolution pass to the poll
// loop. It never escapes this package.
var errNoMatch = errors.New("no match in this pass")

// condition is what waitFirst requires of a found element.
type condition int

const (
	condExists condition = iota
	condVisible
	condEnabled
)

func parseCondition(s string) (condition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exists":
		return condExists, nil
	case "visible":
		return condVisible, nil
	case "enabled":
		return condEnabled, nil
	default:
		return 0, core.ErrInvalidArgument.WithMessagef("unknown wait condition %q (valid: exists, visible, enabled)", s)
	}
}

// waitFirst polls the live tree until a matching element satisfies
// cond or the locator's timeout elapses. A zero timeout means exactly
// one attempt. The loop sleeps a fixed interval between passes and
// stops as soon as the context is done, so an abandoned call never
// leaks a polling goroutine.
func (l *Locator) waitFirst(ctx context.Context, cond condition) (*Element, error) {
	var found *Element

	attempt := func() error {
		root, err := l.resolveScope(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		nodes, err := l.eng.findAll(ctx, root, l.sel, l.eng.opts.MaxDepth)
		if err != nil {
			return backoff.Permanent(err)
		}
		if len(nodes) == 0 {
			return errNoMatch
		}
		el := newElement(l.eng, nodes[0])
		ok, err := el.meetsCondition(ctx, cond)
		if err != nil {
			// The candidate died between matching and the condition
			// read; treat it like a miss and let the next poll re-scan.
			if errors.Is(err, core.ErrElementNotFound) {
				return errNoMatch
			}
			return backoff.Permanent(err)
		}
		if !ok {
			return errNoMatch
		}
		found = el
		return nil
	}

	err := l.eng.poll(ctx, l.timeout, attempt)
	if err == nil {
		return found, nil
	}
	if errors.Is(err, errNoMatch) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, core.ErrTimeout.WithMessagef("timed out after %v waiting for %q", l.timeout, l.sel.String())
	}
	return nil, normalize(err)
}

// poll runs op once for a non-positive timeout, otherwise retries it
// at a constant interval until it succeeds, returns a permanent error,
// or the deadline passes. The elapsed time never exceeds the timeout
// by more than one interval.
func (e *engine) poll(ctx context.Context, timeout time.Duration, op backoff.Operation) error {
	if timeout <= 0 {
		return unwrapPermanent(op())
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	bo := backoff.WithContext(backoff.NewConstantBackOff(e.opts.PollInterval), ctx)
	return backoff.Retry(op, bo)
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

// resolveScope produces the tree root for this locator's scope. An
// element scope whose node has died surfaces ElementNotFound rather
// than a raw platform failure.
func (l *Locator) resolveScope(ctx context.Context) (platform.NodeRef, error) {
	switch l.scope.kind {
	case scopeElement:
		el := l.scope.element
		if err := el.ensureAlive(); err != nil {
			return nil, err
		}
		return el.node, nil
	case scopeApplication:
		ref, err := l.eng.adapter.RootNode(ctx, platform.Scope{Application: l.scope.application})
		if err != nil {
			return nil, normalize(err)
		}
		return ref, nil
	default:
		ref, err := l.eng.adapter.RootNode(ctx, platform.Scope{})
		if err != nil {
			return nil, normalize(err)
		}
		return ref, nil
	}
}

// findAll evaluates the selector stage-by-stage against the live tree
// under root. Each stage filters the descendants of the previous
// stage's matches; an empty selector matches the root itself. The
// returned nodes are in breadth-first discovery order, deduplicated.
func (e *engine) findAll(ctx context.Context, root platform.NodeRef, sel selector.Selector, maxDepth int) ([]platform.NodeRef, error) {
	candidates := []platform.NodeRef{root}
	if sel.IsEmpty() {
		return candidates, nil
	}

	for _, stage := range sel.Stages {
		var next []platform.NodeRef
		seen := make(map[platform.NodeRef]bool)
		for _, cand := range candidates {
			matches, err := e.matchDescendants(ctx, cand, stage, maxDepth)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					next = append(next, m)
				}
			}
		}
		if stage.Nth != nil {
			idx := *stage.Nth
			if idx < 0 {
				idx += len(next)
			}
			if idx < 0 || idx >= len(next) {
				return nil, nil
			}
			next = []platform.NodeRef{next[idx]}
		}
		if len(next) == 0 {
			return nil, nil
		}
		candidates = next
	}
	return candidates, nil
}

// matchDescendants walks the subtree below node breadth-first,
// collecting every descendant that satisfies the stage. Nodes that
// vanish mid-walk are skipped; the tree is mutating underneath us and
// a dead branch is simply not a match.
func (e *engine) matchDescendants(ctx context.Context, node platform.NodeRef, stage selector.Stage, maxDepth int) ([]platform.NodeRef, error) {
	type entry struct {
		ref   platform.NodeRef
		depth int
	}

	var matches []platform.NodeRef
	queue := []entry{{ref: node, depth: 0}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := queue[0]
		queue = queue[1:]

		children, err := e.adapter.Children(ctx, cur.ref)
		if err != nil {
			if errors.Is(err, core.ErrElementNotFound) {
				continue
			}
			return nil, normalize(err)
		}
		for _, child := range children {
			info, err := e.adapter.Attributes(ctx, child)
			if err != nil {
				if errors.Is(err, core.ErrElementNotFound) {
					continue
				}
				return nil, normalize(err)
			}
			if matchStage(info, stage) {
				matches = append(matches, child)
			}
			if maxDepth <= 0 || cur.depth+1 < maxDepth {
				queue = append(queue, entry{ref: child, depth: cur.depth + 1})
			}
		}
	}
	return matches, nil
}

// matchStage reports whether a node satisfies at least one of the
// stage's alternative predicate groups.
func matchStage(info *core.ElementInfo, stage selector.Stage) bool {
	for _, group := range stage.Groups {
		if matchGroup(info, group) {
			return true
		}
	}
	return false
}

func matchGroup(info *core.ElementInfo, group selector.Group) bool {
	for _, pred := range group {
		if !matchPredicate(info, pred) {
			return false
		}
	}
	return true
}

func matchPredicate(info *core.ElementInfo, pred selector.Predicate) bool {
	switch pred.Kind {
	case selector.KindRole:
		// Roles compare case-insensitively: "button" matches "Button".
		return strings.EqualFold(info.Role, pred.Value)
	case selector.KindName:
		if pred.Comparator == selector.Contains {
			return strings.Contains(info.Name, pred.Value)
		}
		return info.Name == pred.Value
	case selector.KindNativeID:
		return info.NativeID == pred.Value
	case selector.KindAttribute:
		v, ok := info.Attr(pred.Key)
		if !ok {
			return false
		}
		if pred.Comparator == selector.Contains {
			return strings.Contains(v, pred.Value)
		}
		return v == pred.Value
	default:
		return false
	}
}
