package device

import (
	"fmt"
	"strings"
	"time"

	"github.com/devicelab-dev/fleetrunner/pkg/core"
)

// appSettleDelay gives the app time to draw its first screen after launch.
const appSettleDelay = 3 * time.Second

// StartApp launches the given package/activity, force-stopping any running
// instance first so every test starts from a cold launch.
func (d *AndroidDevice) StartApp(pkg, activity string) error {
	if !d.IsInstalled(pkg) {
		return core.ErrAppNotInstalled.WithMessage(
			fmt.Sprintf("package %s is not installed on %s", pkg, d.serial))
	}

	if d.IsAppRunning(pkg) {
		if err := d.StopApp(pkg); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}

	out, err := d.Shell(fmt.Sprintf("am start -n %s/%s", pkg, activity))
	if err != nil {
		return core.ErrAppStartFailed.WithCause(err)
	}
	if strings.Contains(out, "Error") {
		return core.ErrAppStartFailed.WithMessage(
			fmt.Sprintf("am start %s/%s: %s", pkg, activity, strings.TrimSpace(out)))
	}

	time.Sleep(appSettleDelay)
	return nil
}

// StopApp force-stops the given package.
func (d *AndroidDevice) StopApp(pkg string) error {
	_, err := d.Shell("am force-stop " + pkg)
	return err
}

// IsAppRunning checks whether the package has a running process.
func (d *AndroidDevice) IsAppRunning(pkg string) bool {
	out, err := d.Shell("pidof " + pkg)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// ClearAppState clears the app's data, returning it to a first-launch state.
func (d *AndroidDevice) ClearAppState(pkg string) error {
	_, err := d.Shell("pm clear " + pkg)
	return err
}
