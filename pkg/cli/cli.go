// Package cli provides the command-line interface for fleetrunner.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/config"
	"github.com/devicelab-dev/fleetrunner/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Directory containing devices.yaml and credentials.yaml",
		Value:   "config",
		EnvVars: []string{"FLEET_CONFIG_DIR"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"FLEET_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to a rotating file in addition to the console",
		EnvVars: []string{"FLEET_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	// Optional .env overlay for credential overrides; missing file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "fleetrunner",
		Usage:   "Run the UI test suite across a fleet of Android devices",
		Version: Version,
		Description: `Fleetrunner drives Android apps through UIAutomator2 and runs the
registered test suite on every configured device in parallel, one
OS process per device, then merges the results into one HTML report.

Examples:
  fleetrunner run
  fleetrunner run --device pixel_6,galaxy_s21
  fleetrunner run-device --device pixel_6 --test login/valid_credentials
  fleetrunner devices
  fleetrunner report --dir reports/run_20260827_103045`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			logger.Init(logger.Options{
				Verbose: c.Bool("verbose"),
				NoColor: c.Bool("no-ansi"),
				LogFile: c.String("log-file"),
			})
			return nil
		},
		Commands: []*cli.Command{
			runCommand,
			runDeviceCommand,
			devicesCommand,
			casesCommand,
			reportCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the fleet configuration named by the global flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadDir(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
