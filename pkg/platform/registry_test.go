package platform

import (
	"errors"
	"testing"

	"github.com/desklab-dev/uidriver/pkg/core"
)

func TestNew_Unregistered(t *testing.T) {
	_, err := New("beos")
	if err == nil {
		t.Fatal("expected error for unregistered adapter")
	}
	if !errors.Is(err, core.ErrUnsupportedPlatform) {
		t.Errorf("error = %v, want UnsupportedPlatform", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	called := 0
	Register("test-adapter", func() (Adapter, error) {
		called++
		return nil, nil
	})

	for i := 0; i < 2; i++ {
		if _, err := New("test-adapter"); err != nil {
			t.Fatalf("New: %v", err)
		}
	}
	if called != 2 {
		t.Errorf("factory called %d times, want 2", called)
	}

	found := false
	for _, name := range Registered() {
		if name == "test-adapter" {
			found = true
		}
	}
	if !found {
		t.Errorf("Registered() = %v, missing test-adapter", Registered())
	}
}
