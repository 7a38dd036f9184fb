package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/desklab-dev/uidriver/pkg/logger"
	"github.com/desklab-dev/uidriver/pkg/scripting"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run a JavaScript automation script",
	ArgsUsage: "<script.js>",
	Description: `Execute a script with a desktop global bound to the selected
driver. Values the script stores in the output object are printed as
JSON on exit.

Examples:
  uidriver run login.js
  uidriver run smoke.js --driver mock --tree app.yaml -e USER=admin`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "KEY=VALUE variables exposed to the script as globals",
		},
	},
	Action: runScript,
}

func runScript(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("missing script argument")
	}
	path := c.Args().First()
	source, err := os.ReadFile(path) //#nosec G304 -- user-provided script file
	if err != nil {
		return err
	}

	d, err := newDesktop(c)
	if err != nil {
		return err
	}
	defer d.Close()

	engine := scripting.New(c.Context, d)
	for _, pair := range c.StringSlice("env") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --env %q, want KEY=VALUE", pair)
		}
		engine.SetVariable(key, value)
	}

	logger.Info("run script %s", path)
	if err := engine.Run(string(source)); err != nil {
		return err
	}

	if out := engine.GetOutput(); len(out) > 0 {
		return printJSON(out)
	}
	return nil
}
