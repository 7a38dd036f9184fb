package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/desklab-dev/uidriver/pkg/desktop"
	"github.com/desklab-dev/uidriver/pkg/logger"
)

var clickCommand = &cli.Command{
	Name:      "click",
	Usage:     "Click the first element matching a selector",
	ArgsUsage: "<selector>",
	Description: `Examples:
  uidriver click "role:button && name:Save"
  uidriver click "#submit" --timeout-ms 5000`,
	Action: runClick,
}

var typeCommand = &cli.Command{
	Name:      "type",
	Usage:     "Type text into the first element matching a selector",
	ArgsUsage: "<selector> <text>",
	Description: `Appends keystrokes to the element's current content. Use set-value
to replace it instead.

Examples:
  uidriver type "role:edit && name:Search" "hello world"`,
	Action: runType,
}

var setValueCommand = &cli.Command{
	Name:      "set-value",
	Usage:     "Replace the value of the first element matching a selector",
	ArgsUsage: "<selector> <value>",
	Description: `Sets the element's value pattern directly. Pass --range to set a
numeric range value (sliders, progress bars) instead of text.

Examples:
  uidriver set-value "#search" "query"
  uidriver set-value "role:slider" 75 --range`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "range",
			Usage: "Interpret the value as a number for the range pattern",
		},
	},
	Action: runSetValue,
}

var getValueCommand = &cli.Command{
	Name:      "get-value",
	Usage:     "Print the value of the first element matching a selector",
	ArgsUsage: "<selector>",
	Description: `Prints the element's current value, or nothing when the element
has no value pattern. Pass --range to read the numeric range value.

Examples:
  uidriver get-value "#search"
  uidriver get-value "role:slider" --range`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "range",
			Usage: "Read the numeric range pattern",
		},
	},
	Action: runGetValue,
}

var highlightCommand = &cli.Command{
	Name:      "highlight",
	Usage:     "Draw a transient overlay over the first matching element",
	ArgsUsage: "<selector>",
	Description: `Examples:
  uidriver highlight "#submit"
  uidriver highlight "role:button" --text FOUND --duration-ms 3000`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "text",
			Usage: "Overlay label (truncated to 10 characters)",
		},
		&cli.IntFlag{
			Name:  "duration-ms",
			Usage: "Overlay lifetime in milliseconds",
		},
		&cli.UintFlag{
			Name:  "color",
			Usage: "Overlay color as a BGR value",
		},
	},
	Action: runHighlight,
}

// resolveFirst is the shared front half of every action command.
func resolveFirst(c *cli.Context) (*desktop.Desktop, *desktop.Element, error) {
	sel, err := selectorArg(c)
	if err != nil {
		return nil, nil, err
	}
	d, err := newDesktop(c)
	if err != nil {
		return nil, nil, err
	}
	loc, err := buildLocator(c, d, sel)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	el, err := loc.First(c.Context)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, el, nil
}

func runClick(c *cli.Context) error {
	d, el, err := resolveFirst(c)
	if err != nil {
		return err
	}
	defer d.Close()

	logger.Info("click %s", c.Args().First())
	return el.Click(c.Context)
}

func runType(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: type <selector> <text>")
	}
	d, el, err := resolveFirst(c)
	if err != nil {
		return err
	}
	defer d.Close()

	return el.Type(c.Context, c.Args().Get(1))
}

func runSetValue(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: set-value <selector> <value>")
	}
	d, el, err := resolveFirst(c)
	if err != nil {
		return err
	}
	defer d.Close()

	raw := c.Args().Get(1)
	if c.Bool("range") {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("--range requires a numeric value: %w", err)
		}
		return el.SetRangeValue(c.Context, n)
	}
	return el.SetValue(c.Context, raw)
}

func runGetValue(c *cli.Context) error {
	d, el, err := resolveFirst(c)
	if err != nil {
		return err
	}
	defer d.Close()

	if c.Bool("range") {
		val, err := el.RangeValue(c.Context)
		if err != nil {
			return err
		}
		if val != nil {
			fmt.Println(*val)
		}
		return nil
	}
	val, err := el.Value(c.Context)
	if err != nil {
		return err
	}
	if val != nil {
		fmt.Println(*val)
	}
	return nil
}

func runHighlight(c *cli.Context) error {
	d, el, err := resolveFirst(c)
	if err != nil {
		return err
	}
	defer d.Close()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts := desktop.HighlightOptions{
		Color:        cfg.Highlight.Color,
		Duration:     time.Duration(cfg.Highlight.Duration) * time.Millisecond,
		Text:         c.String("text"),
		TextPosition: desktop.TextPosition(cfg.Highlight.TextPosition),
		FontStyle:    desktop.FontStyle(cfg.Highlight.FontStyle),
	}
	if c.IsSet("color") {
		opts.Color = uint32(c.Uint("color"))
	}
	if c.IsSet("duration-ms") {
		opts.Duration = time.Duration(c.Int("duration-ms")) * time.Millisecond
	}

	overlay, err := el.Highlight(c.Context, opts)
	if err != nil {
		return err
	}
	// Keep the process alive until the overlay expires, then tidy up.
	if opts.Duration <= 0 {
		opts.Duration = time.Second
	}
	time.Sleep(opts.Duration)
	return overlay.Close()
}
