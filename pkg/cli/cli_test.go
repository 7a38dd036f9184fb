package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desklab-dev/uidriver/pkg/core"
)

const testTree = `
role: window
name: Demo
children:
  - role: button
    name: Save
    nativeid: save
  - role: edit
    name: Search
    nativeid: search
    value: ""
  - role: slider
    name: Volume
    nativeid: volume
    range: 40
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte(testTree), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run invokes the app the way a shell would, with the mock driver
// preselected.
func run(t *testing.T, fixture string, args ...string) error {
	t.Helper()
	argv := append([]string{"uidriver", "--driver", "mock", "--tree", fixture, "--timeout-ms", "200", "--poll-ms", "10"}, args...)
	return newApp().Run(argv)
}

func TestFindCommand(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "find", "#save"); err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestFindCommand_MissingElement(t *testing.T) {
	fixture := writeFixture(t)

	err := run(t, fixture, "find", "role:ghost")
	if !errors.Is(err, core.ErrTimeout) {
		t.Fatalf("find miss = %v, want Timeout", err)
	}
}

func TestFindCommand_MissingSelector(t *testing.T) {
	fixture := writeFixture(t)

	err := run(t, fixture, "find")
	if err == nil || !strings.Contains(err.Error(), "selector") {
		t.Fatalf("expected missing selector error, got %v", err)
	}
}

func TestFindCommand_BadSelector(t *testing.T) {
	fixture := writeFixture(t)

	err := run(t, fixture, "find", "nth=0")
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("bad selector = %v, want InvalidArgument", err)
	}
}

func TestAllCommand(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "all", "role:ghost"); err != nil {
		t.Fatalf("all with no matches should succeed, got %v", err)
	}
	if err := run(t, fixture, "all", "role:button | role:edit"); err != nil {
		t.Fatalf("all: %v", err)
	}
}

func TestValidateCommand_NeverFailsOnAbsence(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "validate", "role:ghost"); err != nil {
		t.Fatalf("validate miss should exit clean, got %v", err)
	}
	if err := run(t, fixture, "validate", "#save"); err != nil {
		t.Fatalf("validate hit: %v", err)
	}
}

func TestClickCommand(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "click", "role:button && name:Save"); err != nil {
		t.Fatalf("click: %v", err)
	}
}

func TestTypeCommand_RequiresText(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "type", "#search"); err == nil {
		t.Fatal("expected usage error without text argument")
	}
	if err := run(t, fixture, "type", "#search", "query"); err != nil {
		t.Fatalf("type: %v", err)
	}
}

func TestSetValueCommand_Range(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "set-value", "--range", "#volume", "80"); err != nil {
		t.Fatalf("set-value --range: %v", err)
	}
	if err := run(t, fixture, "set-value", "--range", "#volume", "loud"); err == nil {
		t.Fatal("expected error for non-numeric range value")
	}
}

func TestGetValueCommand_NoPattern(t *testing.T) {
	fixture := writeFixture(t)

	// A button has no value pattern; the read prints nothing but is
	// not an error.
	if err := run(t, fixture, "get-value", "#save"); err != nil {
		t.Fatalf("get-value on button: %v", err)
	}
}

func TestWaitCommand_InvalidCondition(t *testing.T) {
	fixture := writeFixture(t)

	err := run(t, fixture, "wait", "--for", "glowing", "#save")
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("invalid condition = %v, want InvalidArgument", err)
	}
}

func TestTreeCommand(t *testing.T) {
	fixture := writeFixture(t)

	if err := run(t, fixture, "tree"); err != nil {
		t.Fatalf("tree: %v", err)
	}
	if err := run(t, fixture, "tree", "role:window"); err != nil {
		t.Fatalf("tree with selector: %v", err)
	}
}

func TestRunCommand(t *testing.T) {
	fixture := writeFixture(t)
	script := filepath.Join(t.TempDir(), "script.js")
	source := `
var btn = desktop.locator("#save").first();
btn.click();
output.name = btn.attributes().name;
`
	if err := os.WriteFile(script, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, fixture, "run", script); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunCommand_EnvVariables(t *testing.T) {
	fixture := writeFixture(t)
	script := filepath.Join(t.TempDir(), "script.js")
	source := `desktop.locator("#" + TARGET).first().click();`
	if err := os.WriteFile(script, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, fixture, "run", "-e", "TARGET=save", script); err != nil {
		t.Fatalf("run with env: %v", err)
	}
	if err := run(t, fixture, "run", "-e", "=bad", script); err != nil {
		if !strings.Contains(err.Error(), "env") {
			t.Fatalf("unexpected error for malformed env pair: %v", err)
		}
	} else {
		t.Fatal("expected error for malformed env pair")
	}
}

func TestMockDriverRequiresTree(t *testing.T) {
	err := newApp().Run([]string{"uidriver", "--driver", "mock", "find", "#save"})
	if err == nil || !strings.Contains(err.Error(), "tree") {
		t.Fatalf("expected missing tree error, got %v", err)
	}
}
