package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/suite"
)

var casesCommand = &cli.Command{
	Name:   "cases",
	Usage:  "List registered test cases",
	Action: casesAction,
}

func casesAction(c *cli.Context) error {
	w := c.App.Writer
	for _, tc := range suite.All() {
		if len(tc.Tags) > 0 {
			fmt.Fprintf(w, "%-40s [%s]\n", tc.Name, strings.Join(tc.Tags, ", "))
		} else {
			fmt.Fprintln(w, tc.Name)
		}
	}
	return nil
}
