package main

import "github.com/devicelab-dev/fleetrunner/pkg/cli"

func main() {
	cli.Execute()
}
