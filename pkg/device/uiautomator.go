package device

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// UIAutomator2 package names
const (
	UIAutomator2Server = "io.appium.uiautomator2.server"
	UIAutomator2Test   = "io.appium.uiautomator2.server.test"
)

// Port range for local TCP forwarding. Each device run allocates its own
// free port here so concurrent sessions never collide.
const (
	portRangeStart = 6001
	portRangeEnd   = 7001
)

// ServerConfig holds configuration for the UIAutomator2 server.
type ServerConfig struct {
	LocalPort  int           // Local TCP port (default: auto-find free port)
	DevicePort int           // Port on device (default: 6790)
	Timeout    time.Duration // Startup timeout (default: 30s)
}

// DefaultServerConfig returns default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		DevicePort: 6790,
		Timeout:    30 * time.Second,
	}
}

// StartServer starts the UIAutomator2 server on the device and forwards a
// local TCP port to it. The forwarded port is available via LocalPort.
func (d *AndroidDevice) StartServer(cfg ServerConfig) error {
	if !d.IsInstalled(UIAutomator2Server) {
		return fmt.Errorf("UIAutomator2 server not installed: %s", UIAutomator2Server)
	}
	if !d.IsInstalled(UIAutomator2Test) {
		return fmt.Errorf("UIAutomator2 test APK not installed: %s", UIAutomator2Test)
	}

	// Stop any existing instance
	d.StopServer()

	localPort := cfg.LocalPort
	if localPort == 0 {
		port, err := findFreePort(portRangeStart, portRangeEnd)
		if err != nil {
			return err
		}
		localPort = port
	}

	if err := d.Forward(localPort, cfg.DevicePort); err != nil {
		return fmt.Errorf("port forward failed: %w", err)
	}
	d.localPort = localPort

	// Start instrumentation in background; nohup with output redirected so
	// the shell call returns while the runner keeps going on the device.
	instrumentCmd := fmt.Sprintf(
		"nohup am instrument -w -e disableAnalytics true "+
			"%s/androidx.test.runner.AndroidJUnitRunner "+
			"> /dev/null 2>&1 &",
		UIAutomator2Test,
	)
	if _, err := d.Shell(instrumentCmd); err != nil {
		return fmt.Errorf("failed to start instrumentation: %w", err)
	}

	if err := d.waitForServerReady(cfg.Timeout); err != nil {
		d.StopServer()
		return err
	}

	return nil
}

// StopServer stops the UIAutomator2 server and removes the port forward.
func (d *AndroidDevice) StopServer() error {
	d.Shell("am force-stop " + UIAutomator2Server)
	d.Shell("am force-stop " + UIAutomator2Test)

	// Give processes time to die
	time.Sleep(300 * time.Millisecond)

	if d.localPort != 0 {
		d.RemoveForward(d.localPort)
		d.localPort = 0
	}

	return nil
}

// IsServerRunning checks if the UIAutomator2 server is responding.
func (d *AndroidDevice) IsServerRunning() bool {
	if d.localPort == 0 {
		return false
	}
	return checkHealthViaTCP(d.localPort)
}

// waitForServerReady waits for the server to be ready.
func (d *AndroidDevice) waitForServerReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if checkHealthViaTCP(d.localPort) {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}

	return fmt.Errorf("UIAutomator2 server not ready after %v", timeout)
}

// checkHealthViaTCP checks server health on the forwarded port.
func checkHealthViaTCP(port int) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	return checkHealthWithClient(client, fmt.Sprintf("http://127.0.0.1:%d/status", port))
}

// checkHealthWithClient performs a health check using the given client and URL.
func checkHealthWithClient(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// findFreePort finds a free TCP port in the given range.
func findFreePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free port found in range %d-%d", start, end)
}
