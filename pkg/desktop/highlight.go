package desktop

import (
	"context"
	"sync"
	"time"

	"github.com/desklab-dev/uidriver/pkg/platform"
)

// Overlay text longer than this is truncated to avoid overflowing the
// drawn rectangle.
const maxOverlayTextLen = 10

// Highlight appearance defaults: red (BGR), one second.
const (
	defaultHighlightColor    uint32 = 0x0000FF
	defaultHighlightDuration        = time.Second
)

// TextPosition places overlay text relative to the highlight rectangle.
type TextPosition string

const (
	TextPositionTop    TextPosition = "top"
	TextPositionRight  TextPosition = "right"
	TextPositionBottom TextPosition = "bottom"
	TextPositionLeft   TextPosition = "left"
	TextPositionInside TextPosition = "inside"
)

// FontStyle selects the overlay text style.
type FontStyle string

const (
	FontStyleRegular FontStyle = "regular"
	FontStyleBold    FontStyle = "bold"
	FontStyleItalic  FontStyle = "italic"
)

// HighlightOptions configures a transient visual overlay. Zero values
// fall back to the defaults above.
type HighlightOptions struct {
	Color        uint32 // BGR color value
	Duration     time.Duration
	Text         string
	TextPosition TextPosition
	FontStyle    FontStyle
}

// Highlight draws a transient overlay over the element. The returned
// handle removes the overlay early via Close; its lifetime is
// independent of the element handle's, and the adapter removes the
// overlay itself once the duration elapses.
func (el *Element) Highlight(ctx context.Context, opts HighlightOptions) (*Overlay, error) {
	spec := platform.OverlaySpec{
		Color:        opts.Color,
		Duration:     int(opts.Duration / time.Millisecond),
		Text:         truncateOverlayText(opts.Text),
		TextPosition: string(opts.TextPosition),
		FontStyle:    string(opts.FontStyle),
	}
	if spec.Color == 0 {
		spec.Color = defaultHighlightColor
	}
	if spec.Duration <= 0 {
		spec.Duration = int(defaultHighlightDuration / time.Millisecond)
	}

	out, err := el.invoke(ctx, platform.ActionShowOverlay, platform.ActionArgs{Overlay: &spec})
	if err != nil {
		return nil, err
	}
	return &Overlay{eng: el.eng, ref: out.Overlay}, nil
}

func truncateOverlayText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxOverlayTextLen {
		return text
	}
	return string(runes[:maxOverlayTextLen])
}

// Overlay is a disposable handle to a drawn highlight.
type Overlay struct {
	eng  *engine
	ref  platform.NodeRef
	once sync.Once
	err  error
}

// Close removes the overlay early. Safe to call more than once.
func (o *Overlay) Close() error {
	o.once.Do(func() {
		_, err := o.eng.adapter.Invoke(context.Background(), o.ref, platform.ActionCloseOverlay, platform.ActionArgs{})
		o.err = normalize(err)
	})
	return o.err
}
