// Package cli provides the command-line interface for uidriver.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/desklab-dev/uidriver/pkg/config"
	"github.com/desklab-dev/uidriver/pkg/desktop"
	"github.com/desklab-dev/uidriver/pkg/logger"
	"github.com/desklab-dev/uidriver/pkg/platform"
	"github.com/desklab-dev/uidriver/pkg/platform/mock"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Platform driver to use (windows, darwin, linux, mock); default autodetects",
		EnvVars: []string{"UIDRIVER_DRIVER"},
	},
	&cli.StringFlag{
		Name:    "tree",
		Usage:   "YAML tree fixture for the mock driver",
		EnvVars: []string{"UIDRIVER_TREE"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Workspace directory holding config.yaml",
		EnvVars: []string{"UIDRIVER_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "app",
		Usage: "Scope selectors to the named application",
	},
	&cli.IntFlag{
		Name:    "timeout-ms",
		Aliases: []string{"t"},
		Usage:   "Resolution timeout in milliseconds (0 = single attempt)",
		Value:   -1,
		EnvVars: []string{"UIDRIVER_TIMEOUT_MS"},
	},
	&cli.IntFlag{
		Name:  "poll-ms",
		Usage: "Delay between resolution attempts in milliseconds",
	},
	&cli.IntFlag{
		Name:  "max-depth",
		Usage: "Tree traversal depth bound (0 = unbounded)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"UIDRIVER_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "uidriver",
		Usage:   "Locate and drive desktop UI elements through accessibility trees",
		Version: Version,
		Description: `uidriver resolves declarative selectors against the live
accessibility tree of the current desktop session and performs actions
on the elements they match.

Examples:
  uidriver find "role:button && name:Save"
  uidriver click "#submit" --timeout-ms 5000
  uidriver type "role:edit && name:Search" "hello"
  uidriver validate "role:dialog" --driver mock --tree app.yaml
  uidriver run script.js`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			findCommand,
			allCommand,
			validateCommand,
			waitCommand,
			clickCommand,
			typeCommand,
			setValueCommand,
			getValueCommand,
			highlightCommand,
			treeCommand,
			runCommand,
		},
	}
}

// loadConfig reads the workspace config named by --config, falling
// back to the current directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	dir := c.String("config")
	if dir == "" {
		dir = "."
	}
	return config.LoadFromDir(dir)
}

// newDesktop builds the desktop handle from flags and workspace
// config. Flags win over config values.
func newDesktop(c *cli.Context) (*desktop.Desktop, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if c.Bool("verbose") {
		logger.SetVerbose(true)
		logPath := cfg.LogFile
		if logPath == "" {
			if err := os.MkdirAll(config.GetLogsDir(), 0o755); err == nil {
				logPath = filepath.Join(config.GetLogsDir(), "uidriver.log")
			}
		}
		if logPath != "" {
			if err := logger.Init(logPath); err != nil {
				return nil, err
			}
		}
	}

	opts := desktop.Options{
		DefaultTimeout: cfg.Timeout(),
		PollInterval:   cfg.Poll(),
		MaxDepth:       cfg.MaxDepth,
	}
	if c.IsSet("poll-ms") {
		opts.PollInterval = time.Duration(c.Int("poll-ms")) * time.Millisecond
	}
	if c.IsSet("max-depth") {
		opts.MaxDepth = c.Int("max-depth")
	}

	driver := c.String("driver")
	if driver == "" {
		driver = cfg.Driver
	}

	if driver == mock.Name {
		fixture := c.String("tree")
		if fixture == "" {
			fixture = cfg.TreeFixture
		}
		if fixture == "" {
			return nil, fmt.Errorf("mock driver requires --tree or treeFixture in config.yaml")
		}
		adapter, err := mock.FromFile(fixture)
		if err != nil {
			return nil, err
		}
		logger.Info("using mock driver with tree %s", fixture)
		return desktop.NewWithAdapter(adapter, opts), nil
	}

	if driver != "" {
		adapter, err := platform.New(driver)
		if err != nil {
			return nil, err
		}
		logger.Info("using %s driver", driver)
		return desktop.NewWithAdapter(adapter, opts), nil
	}

	return desktop.New(opts)
}

// buildLocator resolves the selector argument into a locator, applying
// --app scoping and --timeout-ms.
func buildLocator(c *cli.Context, d *desktop.Desktop, sel string) (*desktop.Locator, error) {
	var loc *desktop.Locator
	var err error
	if app := c.String("app"); app != "" {
		loc, err = d.Application(app).Locator(sel)
	} else {
		loc, err = d.Locator(sel)
	}
	if err != nil {
		return nil, err
	}
	if ms := c.Int("timeout-ms"); ms >= 0 {
		loc = loc.Timeout(time.Duration(ms) * time.Millisecond)
	}
	return loc, nil
}
