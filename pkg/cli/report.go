package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/report"
)

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "Re-merge the artifacts of an existing run",
	Description: `Reads every result_*.json in a run directory and regenerates the
combined JSON and HTML report. Useful after copying artifacts off
CI machines or when a run was interrupted mid-merge.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "dir",
			Usage:    "Run directory containing the per-device artifacts",
			Required: true,
		},
	},
	Action: reportAction,
}

func reportAction(c *cli.Context) error {
	dir := c.String("dir")

	combined, err := report.MergeDir(dir, "")
	if err != nil {
		return err
	}

	now := time.Now()
	jsonPath := report.CombinedJSONPath(dir, now)
	if err := report.WriteCombined(jsonPath, combined); err != nil {
		return err
	}
	htmlPath := report.CombinedHTMLPath(dir, now)
	if err := report.WriteCombinedHTML(htmlPath, combined); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Merged %d devices: %d passed, %d failed, %d errored\n",
		len(combined.Devices),
		combined.Summary.Passed, combined.Summary.Failed, combined.Summary.Errored)
	fmt.Fprintf(c.App.Writer, "Report: %s\n", htmlPath)
	return nil
}
