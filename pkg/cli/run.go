package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/report"
	"github.com/devicelab-dev/fleetrunner/pkg/runner"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run the suite on every configured device in parallel",
	Description: `Spawns one run-device process per configured device, waits for all
of them and merges the per-device artifacts into a combined report.

Examples:
  fleetrunner run
  fleetrunner run --device pixel_6
  fleetrunner run --test login/valid_credentials --output ./out`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "device",
			Usage: "Comma-separated device IDs to run on (default: all configured)",
		},
		&cli.StringFlag{
			Name:  "test",
			Usage: "Run only this test case",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Root directory for run artifacts (default: ./reports)",
		},
	},
	Action: runAction,
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := runner.NewLauncher(runner.LaunchConfig{
		ConfigDir:  c.String("config"),
		OutputRoot: c.String("output"),
		DeviceIDs:  splitList(c.String("device")),
		TestFilter: c.String("test"),
		Verbose:    c.Bool("verbose"),
	}, cfg)

	combined, runDir, err := l.Run(ctx)
	if err != nil {
		return err
	}

	printRunSummary(c, combined, runDir)

	if !combined.Passed() {
		return cli.Exit("", 1)
	}
	return nil
}

func printRunSummary(c *cli.Context, combined *report.Combined, runDir string) {
	w := c.App.Writer
	fmt.Fprintf(w, "\nRun %s\n", combined.RunID)
	for _, d := range combined.Devices {
		fmt.Fprintf(w, "  %-16s %-8s %d passed, %d failed, %d errored\n",
			d.Device.ID, d.Status,
			d.Summary.Passed, d.Summary.Failed, d.Summary.Errored)
		if d.Error != "" {
			fmt.Fprintf(w, "    %s\n", d.Error)
		}
	}
	fmt.Fprintf(w, "Total: %d passed, %d failed, %d errored",
		combined.Summary.Passed, combined.Summary.Failed, combined.Summary.Errored)
	if combined.Summary.Flaky > 0 {
		fmt.Fprintf(w, " (%d flaky)", combined.Summary.Flaky)
	}
	fmt.Fprintf(w, "\nArtifacts: %s\n", runDir)
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
