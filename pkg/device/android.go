// Package device provides Android device management via ADB.
package device

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// AndroidDevice manages an Android device connection via ADB.
type AndroidDevice struct {
	serial    string
	adbPath   string
	localPort int // Forwarded TCP port for the automation server
}

// Info contains basic device information read from system properties.
type Info struct {
	Serial     string
	Model      string
	SDK        string
	Brand      string
	IsEmulator bool
}

// ListEntry is one line of `adb devices` output.
type ListEntry struct {
	Serial string
	State  string // device, offline, unauthorized
}

// New creates an AndroidDevice for the given serial and verifies it is
// connected.
func New(serial string) (*AndroidDevice, error) {
	adbPath, err := findADB()
	if err != nil {
		return nil, err
	}

	if serial == "" {
		return nil, fmt.Errorf("device serial is required")
	}

	d := &AndroidDevice{
		serial:  serial,
		adbPath: adbPath,
	}

	if err := d.waitForDevice(5 * time.Second); err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}

	return d, nil
}

// ListDevices returns all devices known to ADB.
func ListDevices() ([]ListEntry, error) {
	adbPath, err := findADB()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(adbPath, "devices")
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	return parseDevicesOutput(string(out)), nil
}

// parseDevicesOutput parses `adb devices` output.
func parseDevicesOutput(out string) []ListEntry {
	var entries []ListEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			entries = append(entries, ListEntry{Serial: parts[0], State: parts[1]})
		}
	}
	return entries
}

// Serial returns the device serial number.
func (d *AndroidDevice) Serial() string {
	return d.serial
}

// Shell executes a shell command on the device.
func (d *AndroidDevice) Shell(cmd string) (string, error) {
	return d.adb("shell", cmd)
}

// Install installs an APK on the device.
func (d *AndroidDevice) Install(apkPath string) error {
	_, err := d.adb("install", "-r", "-g", apkPath)
	return err
}

// IsInstalled checks if a package is installed.
func (d *AndroidDevice) IsInstalled(pkg string) bool {
	out, err := d.Shell("pm list packages " + pkg)
	if err != nil {
		return false
	}
	return strings.Contains(out, "package:"+pkg)
}

// Forward creates a port forward from local to device.
func (d *AndroidDevice) Forward(localPort, remotePort int) error {
	_, err := d.adb("forward", fmt.Sprintf("tcp:%d", localPort), fmt.Sprintf("tcp:%d", remotePort))
	return err
}

// RemoveForward removes a port forward.
func (d *AndroidDevice) RemoveForward(localPort int) error {
	_, err := d.adb("forward", "--remove", fmt.Sprintf("tcp:%d", localPort))
	return err
}

// LocalPort returns the forwarded automation server port (0 if not started).
func (d *AndroidDevice) LocalPort() int {
	return d.localPort
}

// Info returns device information.
func (d *AndroidDevice) Info() (Info, error) {
	info := Info{Serial: d.serial}

	if model, err := d.Shell("getprop ro.product.model"); err == nil {
		info.Model = strings.TrimSpace(model)
	}
	if sdk, err := d.Shell("getprop ro.build.version.sdk"); err == nil {
		info.SDK = strings.TrimSpace(sdk)
	}
	if brand, err := d.Shell("getprop ro.product.brand"); err == nil {
		info.Brand = strings.TrimSpace(brand)
	}

	chars, _ := d.Shell("getprop ro.kernel.qemu")
	info.IsEmulator = strings.TrimSpace(chars) == "1"

	return info, nil
}

// adb executes an ADB command against this device.
func (d *AndroidDevice) adb(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.serial != "" {
		cmdArgs = append(cmdArgs, "-s", d.serial)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(d.adbPath, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = stdout.String()
		}
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, errMsg)
	}

	return stdout.String(), nil
}

// waitForDevice waits for the device to be available.
func (d *AndroidDevice) waitForDevice(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.isConnected() {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for device %s", d.serial)
}

// isConnected checks if the device is connected.
func (d *AndroidDevice) isConnected() bool {
	out, err := d.adb("get-state")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "device"
}

// findADB locates the ADB binary.
func findADB() (string, error) {
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("adb not found in PATH; ensure Android SDK is installed")
}
