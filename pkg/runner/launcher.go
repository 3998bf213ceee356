package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/devicelab-dev/fleetrunner/pkg/config"
	"github.com/devicelab-dev/fleetrunner/pkg/report"
)

// LaunchConfig configures a parallel run across devices.
type LaunchConfig struct {
	ConfigDir  string   // passed through to child processes
	OutputRoot string   // root of run directories, default "reports"
	DeviceIDs  []string // subset of configured devices; empty means all
	TestFilter string
	Verbose    bool
}

// Launcher runs the suite on every device, one OS process per device.
// Each child is a `run-device` invocation of this same binary; the only
// coordination is the shared run directory the children write into.
type Launcher struct {
	cfg   LaunchConfig
	fleet *config.Config
}

// NewLauncher creates a launcher over a loaded configuration.
func NewLauncher(cfg LaunchConfig, fleet *config.Config) *Launcher {
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = "reports"
	}
	return &Launcher{cfg: cfg, fleet: fleet}
}

// Run spawns one child process per device, waits for all of them, merges
// the per-device artifacts and writes the combined report. The run
// directory path is returned alongside the merged report.
func (l *Launcher) Run(ctx context.Context) (*report.Combined, string, error) {
	devices, err := l.selectDevices()
	if err != nil {
		return nil, "", err
	}

	runID := uuid.NewString()[:8]
	start := time.Now()
	runDir := filepath.Join(l.cfg.OutputRoot, "run_"+report.Timestamp(start))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, "", err
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, "", fmt.Errorf("resolve own binary: %w", err)
	}

	log.Info().
		Str("run_id", runID).
		Str("dir", runDir).
		Int("devices", len(devices)).
		Msg("starting parallel run")

	procErrs := l.spawnAll(ctx, exe, runID, runDir, devices)

	results := l.collectResults(runID, runDir, start, devices, procErrs)

	combined := report.Merge(runID, results)
	jsonPath := report.CombinedJSONPath(runDir, start)
	if err := report.WriteCombined(jsonPath, combined); err != nil {
		return nil, "", err
	}
	htmlPath := report.CombinedHTMLPath(runDir, start)
	if err := report.WriteCombinedHTML(htmlPath, combined); err != nil {
		return nil, "", err
	}

	log.Info().
		Int("passed", combined.Summary.Passed).
		Int("failed", combined.Summary.Failed).
		Int("errored", combined.Summary.Errored).
		Str("report", htmlPath).
		Msg("run complete")

	return combined, runDir, nil
}

// selectDevices resolves the device filter against the configuration.
func (l *Launcher) selectDevices() ([]config.Device, error) {
	if len(l.cfg.DeviceIDs) == 0 {
		if len(l.fleet.Devices) == 0 {
			return nil, fmt.Errorf("no devices configured")
		}
		return l.fleet.Devices, nil
	}

	devices := make([]config.Device, 0, len(l.cfg.DeviceIDs))
	for _, id := range l.cfg.DeviceIDs {
		d, err := l.fleet.Device(id)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// spawnAll starts every child process and waits for all of them. The
// returned map holds the process error per device ID, nil for clean exits.
func (l *Launcher) spawnAll(ctx context.Context, exe, runID, runDir string, devices []config.Device) map[string]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	procErrs := make(map[string]error, len(devices))

	for _, d := range devices {
		wg.Add(1)
		go func(d config.Device) {
			defer wg.Done()

			cmd := exec.CommandContext(ctx, exe, l.childArgs(runID, runDir, d.ID)...) //#nosec G204 -- args built from own config
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr

			log.Info().Str("device", d.ID).Msg("spawning device process")
			err := cmd.Run()

			mu.Lock()
			procErrs[d.ID] = err
			mu.Unlock()
		}(d)
	}
	wg.Wait()
	return procErrs
}

// childArgs builds the run-device invocation for one device.
func (l *Launcher) childArgs(runID, runDir, deviceID string) []string {
	args := []string{}
	if l.cfg.ConfigDir != "" {
		args = append(args, "--config", l.cfg.ConfigDir)
	}
	if l.cfg.Verbose {
		args = append(args, "--verbose")
	}
	args = append(args, "run-device",
		"--device", deviceID,
		"--run-id", runID,
		"--out", runDir,
	)
	if l.cfg.TestFilter != "" {
		args = append(args, "--test", l.cfg.TestFilter)
	}
	return args
}

// collectResults loads every device artifact from the run directory. A
// device whose process exited without writing one gets a synthesized
// errored result so the merged report always covers the whole fleet.
func (l *Launcher) collectResults(runID, runDir string, start time.Time, devices []config.Device, procErrs map[string]error) []report.DeviceResult {
	return lo.Map(devices, func(d config.Device, _ int) report.DeviceResult {
		if r := findDeviceArtifact(runDir, d.ID); r != nil {
			return *r
		}

		msg := "device process exited without writing a result"
		if err := procErrs[d.ID]; err != nil {
			msg = fmt.Sprintf("device process failed: %v", err)
		}
		log.Error().Str("device", d.ID).Msg(msg)

		synth := report.DeviceResult{
			RunID: runID,
			Device: report.DeviceInfo{
				ID:     d.ID,
				Serial: d.Serial,
			},
			StartTime:  start,
			DurationMs: time.Since(start).Milliseconds(),
			Error:      msg,
		}
		synth.Finalize()
		return synth
	})
}

// artifactSuffix matches the timestamp tail of a result file name, so a
// device ID that prefixes another device's ID cannot match its artifacts.
var artifactSuffix = regexp.MustCompile(`^[0-9]{8}_[0-9]{6}\.json$`)

// findDeviceArtifact locates the JSON artifact a device process wrote.
func findDeviceArtifact(runDir, deviceID string) *report.DeviceResult {
	prefix := fmt.Sprintf("result_%s_", report.SanitizeName(deviceID))
	paths, err := filepath.Glob(filepath.Join(runDir, prefix+"*.json"))
	if err != nil {
		return nil
	}

	var match string
	for _, path := range paths {
		if artifactSuffix.MatchString(strings.TrimPrefix(filepath.Base(path), prefix)) {
			// Glob sorts lexically and so does the timestamp, newest wins.
			match = path
		}
	}
	if match == "" {
		return nil
	}

	result, err := report.ReadDeviceResult(match)
	if err != nil {
		return nil
	}
	return result
}
