package desktop

import (
	"context"
	"errors"

	"github.com/desklab-dev/uidriver/pkg/core"
)

// normalize maps arbitrary adapter failures into the canonical
// taxonomy. Errors already classified pass through untouched; context
// expiry becomes Timeout; everything else is a PlatformError carrying
// the native failure as its cause.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	var ae *core.AutomationError
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.ErrTimeout.WithCause(err)
	}
	return core.ErrPlatformError.WithCause(err)
}
