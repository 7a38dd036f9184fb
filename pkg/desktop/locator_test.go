package desktop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/platform"
	"github.com/desklab-dev/uidriver/pkg/platform/mock"
)

// countingAdapter wraps another adapter and counts tree accesses, so
// tests can assert that locator construction touches nothing.
type countingAdapter struct {
	platform.Adapter
	calls int64
}

func (c *countingAdapter) RootNode(ctx context.Context, scope platform.Scope) (platform.NodeRef, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.Adapter.RootNode(ctx, scope)
}

func (c *countingAdapter) Children(ctx context.Context, ref platform.NodeRef) ([]platform.NodeRef, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.Adapter.Children(ctx, ref)
}

func (c *countingAdapter) Attributes(ctx context.Context, ref platform.NodeRef) (*core.ElementInfo, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.Adapter.Attributes(ctx, ref)
}

func TestLocatorChainingIsLazy(t *testing.T) {
	inner, err := mock.FromYAML([]byte(testFixture))
	if err != nil {
		t.Fatal(err)
	}
	counting := &countingAdapter{Adapter: inner}
	d := NewWithAdapter(counting, fastOptions)
	defer d.Close()

	start := time.Now()
	loc, err := d.Locator("role:window")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		loc, err = loc.Locator("role:pane")
		if err != nil {
			t.Fatal(err)
		}
	}
	elapsed := time.Since(start)

	if n := atomic.LoadInt64(&counting.calls); n != 0 {
		t.Errorf("chaining touched the tree %d times, want 0", n)
	}
	if elapsed > time.Second {
		t.Errorf("50 chain calls took %v", elapsed)
	}
	if got := len(loc.sel.Stages); got != 51 {
		t.Errorf("chained selector has %d stages, want 51", got)
	}
}

func TestLocatorChainingSharesEngine(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)

	parent, err := d.Locator("role:window")
	if err != nil {
		t.Fatal(err)
	}
	child, err := parent.Locator("role:button")
	if err != nil {
		t.Fatal(err)
	}
	if parent.eng != child.eng {
		t.Error("chained locator constructed a new engine")
	}
	if parent.eng != d.eng {
		t.Error("locator does not share the desktop's engine")
	}
}

func TestLocatorChainingConcurrent(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)

	base, err := d.Locator("role:window")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loc := base
			for j := 0; j < 50; j++ {
				next, err := loc.Locator("role:pane")
				if err != nil {
					t.Errorf("Locator: %v", err)
					return
				}
				loc = next
			}
			if len(loc.sel.Stages) != 51 {
				t.Errorf("got %d stages, want 51", len(loc.sel.Stages))
			}
		}()
	}
	wg.Wait()
}

func TestLocatorImmutability(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)

	parent, err := d.Locator("role:window")
	if err != nil {
		t.Fatal(err)
	}
	child, err := parent.Locator("role:button")
	if err != nil {
		t.Fatal(err)
	}
	timed := parent.Timeout(5 * time.Second)

	if got := parent.Selector(); got != "role:window" {
		t.Errorf("parent selector mutated to %q", got)
	}
	if got := child.Selector(); got != "role:window >> role:button" {
		t.Errorf("child selector = %q", got)
	}
	if parent.timeout == timed.timeout {
		t.Error("Timeout mutated the parent instead of copying")
	}
	if parent.timeout != fastOptions.DefaultTimeout {
		t.Errorf("parent timeout changed to %v", parent.timeout)
	}
}

func TestLocatorParseErrorsAtConstruction(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)

	for _, sel := range []string{"nth=0", "role:button >> nth=1 >> nth=2", "role:button && "} {
		if _, err := d.Locator(sel); !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("Locator(%q) = %v, want InvalidArgument", sel, err)
		}
	}
}

func TestElementScopedLocator(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)
	ctx := context.Background()

	content, err := mustLocator(t, d, "role:pane && name:Content").First(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Scoped search only sees the subtree: the toolbar buttons are
	// invisible from here.
	scoped, err := content.Locator("role:button")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := scoped.Timeout(0).First(ctx); !errors.Is(err, core.ErrTimeout) {
		t.Errorf("toolbar button visible from content pane scope: %v", err)
	}

	items, err := content.Locator("role:listitem")
	if err != nil {
		t.Fatal(err)
	}
	all, err := items.All(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("scoped All = %d items, want 3", len(all))
	}
}

func TestWithinRebindsScope(t *testing.T) {
	d, _ := newTestDesktop(t, testFixture, fastOptions)
	ctx := context.Background()

	toolbar, err := mustLocator(t, d, "role:pane && name:Toolbar").First(ctx)
	if err != nil {
		t.Fatal(err)
	}

	buttons := mustLocator(t, d, "role:button").Within(toolbar)
	all, err := buttons.All(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Only the two toolbar buttons; Submit sits outside this scope.
	if len(all) != 2 {
		t.Errorf("Within(toolbar) All = %d buttons, want 2", len(all))
	}
}

func TestDesktopCloseReleasesAdapter(t *testing.T) {
	adapter, err := mock.FromYAML([]byte(testFixture))
	if err != nil {
		t.Fatal(err)
	}
	d := NewWithAdapter(adapter, fastOptions)

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := adapter.RootNode(context.Background(), platform.Scope{}); !errors.Is(err, core.ErrPlatformError) {
		t.Errorf("adapter still open after Close: %v", err)
	}
}
