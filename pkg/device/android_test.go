package device

import (
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
)

// skipIfNoDevice skips the test if no device is connected.
func skipIfNoDevice(t *testing.T) {
	t.Helper()
	cmd := exec.Command("adb", "devices")
	out, err := cmd.Output()
	if err != nil {
		t.Skip("adb not available")
	}
	deviceCount := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "\tdevice") {
			deviceCount++
		}
	}
	if deviceCount == 0 {
		t.Skip("no device connected")
	}
}

func TestParseDevicesOutput(t *testing.T) {
	out := `List of devices attached
emulator-5554	device
R5CT102ABCD	unauthorized
emulator-5556	offline

`
	entries := parseDevicesOutput(out)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Serial != "emulator-5554" || entries[0].State != "device" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].State != "unauthorized" {
		t.Errorf("expected unauthorized, got %s", entries[1].State)
	}
	if entries[2].State != "offline" {
		t.Errorf("expected offline, got %s", entries[2].State)
	}
}

func TestParseDevicesOutput_Empty(t *testing.T) {
	entries := parseDevicesOutput("List of devices attached\n\n")
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestParseDevicesOutput_DaemonNoise(t *testing.T) {
	out := `* daemon not running; starting now at tcp:5037
* daemon started successfully
List of devices attached
emulator-5554	device
`
	entries := parseDevicesOutput(out)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Serial != "emulator-5554" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := findFreePort(portRangeStart, portRangeEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port < portRangeStart || port > portRangeEnd {
		t.Errorf("port %d outside range %d-%d", port, portRangeStart, portRangeEnd)
	}
}

func TestCheckHealthWithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if !checkHealthWithClient(server.Client(), server.URL) {
		t.Error("expected healthy")
	}
}

func TestCheckHealthWithClient_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if checkHealthWithClient(server.Client(), server.URL) {
		t.Error("expected unhealthy")
	}
}

func TestCheckHealthViaTCP_NoServer(t *testing.T) {
	// Nothing listens on port 1 on loopback.
	if checkHealthViaTCP(1) {
		t.Error("expected unhealthy for closed port")
	}
}

func TestNew_EmptySerial(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty serial")
	}
}

func TestAndroidDevice_Shell_Real(t *testing.T) {
	skipIfNoDevice(t)

	entries, err := ListDevices()
	if err != nil || len(entries) == 0 {
		t.Skip("no devices")
	}

	d, err := New(entries[0].Serial)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := d.Shell("echo hello")
	if err != nil {
		t.Fatalf("Shell failed: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected hello, got %q", out)
	}
}

func TestAndroidDevice_Info_Real(t *testing.T) {
	skipIfNoDevice(t)

	entries, err := ListDevices()
	if err != nil || len(entries) == 0 {
		t.Skip("no devices")
	}

	d, err := New(entries[0].Serial)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := d.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Serial != entries[0].Serial {
		t.Errorf("expected serial %s, got %s", entries[0].Serial, info.Serial)
	}
	if info.Model == "" {
		t.Error("expected non-empty model")
	}
}
