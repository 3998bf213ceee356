package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/fleetrunner/pkg/device"
)

var devicesCommand = &cli.Command{
	Name:   "devices",
	Usage:  "List configured devices and their live ADB state",
	Action: devicesAction,
}

func devicesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	states := map[string]string{}
	if entries, err := device.ListDevices(); err == nil {
		for _, e := range entries {
			states[e.Serial] = e.State
		}
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%-16s %-20s %-10s %s\n", "ID", "SERIAL", "STATE", "APP")
	for _, d := range cfg.Devices {
		state, ok := states[d.Serial]
		if !ok {
			state = "absent"
		}
		fmt.Fprintf(w, "%-16s %-20s %-10s %s\n", d.ID, d.Serial, state, d.AppPackage)
	}
	return nil
}
