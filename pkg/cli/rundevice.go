package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/report"
	"github.com/devicelab-dev/fleetrunner/pkg/runner"
)

var runDeviceCommand = &cli.Command{
	Name:  "run-device",
	Usage: "Run the suite on a single device",
	Description: `Runs the suite on one device in this process. The run command spawns
one of these per device; it also works standalone to target a single
device or test.

Examples:
  fleetrunner run-device --device pixel_6
  fleetrunner run-device --device pixel_6 --test login/valid_credentials`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "device",
			Usage:    "Configured device ID to run on",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "test",
			Usage: "Run only this test case",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Directory to write artifacts into (default: ./reports/<timestamp>)",
		},
		&cli.StringFlag{
			Name:  "run-id",
			Usage: "Run identifier to stamp on artifacts (set by the run command)",
		},
	},
	Action: runDeviceAction,
}

func runDeviceAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dev, err := cfg.Device(c.String("device"))
	if err != nil {
		return err
	}

	outDir := c.String("out")
	if outDir == "" {
		outDir = defaultDeviceOutDir()
	}
	runID := c.String("run-id")
	if runID == "" {
		runID = "adhoc"
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.NewDeviceRunner(runner.DeviceConfig{
		RunID:      runID,
		OutputDir:  outDir,
		Device:     dev,
		Config:     cfg,
		TestFilter: c.String("test"),
	})

	result, err := r.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s: %s (%d passed, %d failed, %d errored)\n",
		result.Device.ID, result.Status,
		result.Summary.Passed, result.Summary.Failed, result.Summary.Errored)

	if result.Status != report.StatusPassed {
		return cli.Exit("", 1)
	}
	return nil
}

// defaultDeviceOutDir places standalone single-device runs under the same
// root the launcher uses.
func defaultDeviceOutDir() string {
	return filepath.Join("reports", "run_"+report.Timestamp(time.Now()))
}
