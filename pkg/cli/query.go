package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/desklab-dev/uidriver/pkg/core"
	"github.com/desklab-dev/uidriver/pkg/desktop"
	"github.com/desklab-dev/uidriver/pkg/logger"
)

var findCommand = &cli.Command{
	Name:      "find",
	Usage:     "Resolve the first element matching a selector",
	ArgsUsage: "<selector>",
	Description: `Resolve a selector against the live tree, retrying until the
timeout, and print the matched element's attributes as JSON.

Examples:
  uidriver find "role:button && name:Save"
  uidriver find "role:window >> role:list >> nth=2"
  uidriver find "#submit" --app Calculator`,
	Action: runFind,
}

var allCommand = &cli.Command{
	Name:      "all",
	Usage:     "List every element matching a selector",
	ArgsUsage: "<selector>",
	Description: `Resolve every match in a single pass with no retry and print
their attributes as a JSON array. An empty result is not an error.

Examples:
  uidriver all "role:listitem"
  uidriver all "role:button | role:checkbox" --max-depth 10`,
	Action: runAll,
}

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Check whether a selector matches anything",
	ArgsUsage: "<selector>",
	Description: `Like find, but absence is a result rather than a failure: prints
{"exists": false} and exits 0 when nothing matches.

Examples:
  uidriver validate "role:dialog && name:Error"`,
	Action: runValidate,
}

var waitCommand = &cli.Command{
	Name:      "wait",
	Usage:     "Wait until a matching element satisfies a condition",
	ArgsUsage: "<selector>",
	Description: `Poll until the first match satisfies the condition, then print
its attributes.

Examples:
  uidriver wait "role:progressbar" --for exists
  uidriver wait "#submit" --for enabled --timeout-ms 10000`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "for",
			Usage: "Condition to wait for (exists, visible, enabled)",
			Value: "exists",
		},
	},
	Action: runWait,
}

var treeCommand = &cli.Command{
	Name:      "tree",
	Usage:     "Print the accessibility tree",
	ArgsUsage: "[selector]",
	Description: `Dump the subtree below the first match (or the whole desktop) as
indented text, one element per line.

Examples:
  uidriver tree
  uidriver tree "role:window && name:Calculator" --max-depth 5`,
	Action: runTree,
}

func selectorArg(c *cli.Context) (string, error) {
	if c.Args().Len() < 1 {
		return "", fmt.Errorf("missing selector argument")
	}
	return c.Args().First(), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runFind(c *cli.Context) error {
	sel, err := selectorArg(c)
	if err != nil {
		return err
	}
	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	loc, err := buildLocator(c, d, sel)
	if err != nil {
		return err
	}
	logger.Info("find %s", loc.Selector())

	el, err := loc.First(c.Context)
	if err != nil {
		return err
	}
	info, err := el.Attributes(c.Context)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runAll(c *cli.Context) error {
	sel, err := selectorArg(c)
	if err != nil {
		return err
	}
	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	loc, err := buildLocator(c, d, sel)
	if err != nil {
		return err
	}

	elements, err := loc.All(c.Context, c.Int("max-depth"))
	if err != nil {
		return err
	}
	infos := make([]*core.ElementInfo, 0, len(elements))
	for _, el := range elements {
		info, err := el.Attributes(c.Context)
		if err != nil {
			// The tree may have shifted under us; skip dead entries.
			continue
		}
		infos = append(infos, info)
	}
	return printJSON(infos)
}

func runValidate(c *cli.Context) error {
	sel, err := selectorArg(c)
	if err != nil {
		return err
	}
	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	loc, err := buildLocator(c, d, sel)
	if err != nil {
		return err
	}

	result, err := loc.Validate(c.Context)
	if err != nil {
		return err
	}
	out := map[string]interface{}{"exists": result.Exists}
	if result.Element != nil {
		if info, err := result.Element.Attributes(c.Context); err == nil {
			out["element"] = info
		}
	}
	return printJSON(out)
}

func runWait(c *cli.Context) error {
	sel, err := selectorArg(c)
	if err != nil {
		return err
	}
	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	loc, err := buildLocator(c, d, sel)
	if err != nil {
		return err
	}

	el, err := loc.WaitFor(c.Context, c.String("for"))
	if err != nil {
		return err
	}
	info, err := el.Attributes(c.Context)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func runTree(c *cli.Context) error {
	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	sel := ""
	if c.Args().Len() > 0 {
		sel = c.Args().First()
	}
	loc, err := buildLocator(c, d, sel)
	if err != nil {
		return err
	}
	root, err := loc.First(c.Context)
	if err != nil {
		return err
	}
	return dumpTree(c.Context, root, 0, c.Int("max-depth"))
}

func dumpTree(ctx context.Context, el *desktop.Element, depth, maxDepth int) error {
	info, err := el.Attributes(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < depth; i++ {
		fmt.Print("  ")
	}
	line := info.Role
	if info.Name != "" {
		line += " " + fmt.Sprintf("%q", info.Name)
	}
	if info.NativeID != "" {
		line += " #" + info.NativeID
	}
	if !info.Enabled {
		line += " [disabled]"
	}
	if !info.Visible {
		line += " [hidden]"
	}
	fmt.Println(line)

	if maxDepth > 0 && depth+1 >= maxDepth {
		return nil
	}
	children, err := el.Children(ctx)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := dumpTree(ctx, child, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
