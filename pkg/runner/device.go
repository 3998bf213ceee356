// Package runner executes the registered suite against devices. The
// Launcher spawns one OS process per device; each child builds a
// DeviceRunner that owns its device, UIAutomator2 server and session for
// the whole run. Device runs never share memory.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/devicelab-dev/fleetrunner/pkg/config"
	"github.com/devicelab-dev/fleetrunner/pkg/core"
	"github.com/devicelab-dev/fleetrunner/pkg/device"
	"github.com/devicelab-dev/fleetrunner/pkg/logger"
	"github.com/devicelab-dev/fleetrunner/pkg/report"
	"github.com/devicelab-dev/fleetrunner/pkg/suite"
	"github.com/devicelab-dev/fleetrunner/pkg/uiautomator2"
)

// maxAttempts bounds test executions: one run plus one retry.
const maxAttempts = 2

// appDriver is the slice of device behavior runCase needs; satisfied by
// *device.AndroidDevice and faked in tests.
type appDriver interface {
	StartApp(pkg, activity string) error
	StopApp(pkg string) error
}

// DeviceConfig configures a single-device run.
type DeviceConfig struct {
	RunID      string
	OutputDir  string
	Device     config.Device
	Config     *config.Config
	TestFilter string              // run only this case when set
	Artifacts  core.ArtifactConfig // zero value means defaults
}

// DeviceRunner runs the suite on one device and writes its artifacts.
type DeviceRunner struct {
	cfg DeviceConfig
	log zerolog.Logger
}

// NewDeviceRunner creates a runner for one device.
func NewDeviceRunner(cfg DeviceConfig) *DeviceRunner {
	if cfg.Artifacts == (core.ArtifactConfig{}) {
		cfg.Artifacts = core.DefaultArtifactConfig()
	}
	return &DeviceRunner{
		cfg: cfg,
		log: logger.WithDevice(cfg.Device.ID),
	}
}

// Run executes the suite and writes the per-device JSON and HTML
// artifacts. Infrastructure failures before any test runs are recorded as
// a process-level error on the artifact, so the launcher still gets one
// result per device.
func (r *DeviceRunner) Run(ctx context.Context) (*report.DeviceResult, error) {
	start := time.Now()
	result := &report.DeviceResult{
		RunID: r.cfg.RunID,
		Device: report.DeviceInfo{
			ID:              r.cfg.Device.ID,
			Serial:          r.cfg.Device.Serial,
			PlatformVersion: r.cfg.Device.PlatformVersion,
		},
		App: report.AppInfo{
			Package:  r.cfg.Device.AppPackage,
			Activity: r.cfg.Device.AppActivity,
		},
		StartTime: start,
	}

	cases, err := r.selectCases()
	if err != nil {
		return r.finish(result, start, err)
	}

	dev, err := device.New(r.cfg.Device.Serial)
	if err != nil {
		return r.finish(result, start, err)
	}
	if info, err := dev.Info(); err == nil {
		result.Device.Model = info.Model
	}

	r.log.Info().Int("cases", len(cases)).Msg("starting device run")

	srvCfg := device.DefaultServerConfig()
	if err := dev.StartServer(srvCfg); err != nil {
		return r.finish(result, start, err)
	}
	defer dev.StopServer()

	client := uiautomator2.NewClient(dev.LocalPort())
	if err := client.CreateSession(uiautomator2.Capabilities{}); err != nil {
		return r.finish(result, start, err)
	}
	defer client.Close()

	session := suite.NewSession(client, r.cfg.Device, r.cfg.Config, r.log)

	for _, c := range cases {
		if ctx.Err() != nil {
			result.Results = append(result.Results, report.TestResult{
				Name:      c.Name,
				Status:    report.StatusSkipped,
				StartTime: time.Now(),
				Message:   "run cancelled",
			})
			continue
		}
		result.Results = append(result.Results, r.runCase(dev, session, c))
	}

	return r.finish(result, start, nil)
}

// selectCases resolves the test filter against the registry.
func (r *DeviceRunner) selectCases() ([]suite.Case, error) {
	if r.cfg.TestFilter == "" {
		cases := suite.All()
		if len(cases) == 0 {
			return nil, fmt.Errorf("no test cases registered")
		}
		return cases, nil
	}
	c, ok := suite.Lookup(r.cfg.TestFilter)
	if !ok {
		return nil, fmt.Errorf("unknown test case %q", r.cfg.TestFilter)
	}
	return []suite.Case{c}, nil
}

// finish computes the summary, writes the artifacts and returns. A non-nil
// runErr becomes the process-level error on the artifact.
func (r *DeviceRunner) finish(result *report.DeviceResult, start time.Time, runErr error) (*report.DeviceResult, error) {
	if runErr != nil {
		result.Error = runErr.Error()
		r.log.Error().Err(runErr).Msg("device run aborted")
	}
	result.DurationMs = time.Since(start).Milliseconds()
	result.Finalize()

	jsonPath := report.DeviceResultPath(r.cfg.OutputDir, r.cfg.Device.ID, start)
	if err := report.WriteDeviceResult(jsonPath, result); err != nil {
		return result, err
	}
	htmlPath := report.DeviceHTMLPath(r.cfg.OutputDir, r.cfg.Device.ID, start)
	if err := report.WriteDeviceHTML(htmlPath, result); err != nil {
		return result, err
	}

	r.log.Info().
		Str("status", string(result.Status)).
		Int("passed", result.Summary.Passed).
		Int("failed", result.Summary.Failed).
		Int("errored", result.Summary.Errored).
		Msg("device run complete")
	return result, runErr
}

// runCase executes one test with the retry policy: the app is restarted
// before every attempt, a final failure gets a screenshot, and a pass
// after a failed attempt marks the result flaky.
func (r *DeviceRunner) runCase(dev appDriver, session *suite.Session, c suite.Case) report.TestResult {
	tr := report.TestResult{
		Name:      c.Name,
		StartTime: time.Now(),
	}
	log := r.log.With().Str("test", c.Name).Logger()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		tr.Attempts = attempt

		lastErr = r.runAttempt(dev, session, c)
		if lastErr == nil {
			tr.Status = report.StatusPassed
			tr.Flaky = attempt > 1
			if tr.Flaky {
				log.Warn().Int("attempt", attempt).Msg("passed after retry")
			} else {
				log.Info().Msg("passed")
			}
			break
		}
		if attempt < maxAttempts {
			log.Warn().Err(lastErr).Msg("attempt failed, retrying")
		}
	}

	tr.DurationMs = time.Since(tr.StartTime).Milliseconds()

	if lastErr != nil {
		tr.Error = lastErr.Error()
		tr.Category = core.CategoryOf(lastErr).String()
		if core.IsAssertion(lastErr) {
			tr.Status = report.StatusFailed
		} else {
			tr.Status = report.StatusErrored
		}
		log.Error().Err(lastErr).Str("status", string(tr.Status)).Msg("test did not pass")
	}

	if r.cfg.Artifacts.ShouldCapture(lastErr == nil) {
		for _, a := range r.captureArtifacts(session, c.Name) {
			switch a.Name {
			case core.AttachmentScreenshot:
				tr.Screenshot = a.Path
			case core.AttachmentHierarchy:
				tr.Hierarchy = a.Path
			}
		}
	}

	return tr
}

// runAttempt restarts the app and runs the case body once.
func (r *DeviceRunner) runAttempt(dev appDriver, session *suite.Session, c suite.Case) error {
	if err := dev.StartApp(r.cfg.Device.AppPackage, r.cfg.Device.AppActivity); err != nil {
		return err
	}
	defer dev.StopApp(r.cfg.Device.AppPackage)

	return c.Run(session)
}

// captureArtifacts saves the configured debug artifacts next to the
// result files and returns what was captured. Capture errors are logged
// and never mask the test outcome.
func (r *DeviceRunner) captureArtifacts(session *suite.Session, testName string) []core.Attachment {
	var attachments []core.Attachment

	if r.cfg.Artifacts.Screenshot {
		if png, err := session.Client.Screenshot(); err != nil {
			r.log.Warn().Err(err).Msg("screenshot capture failed")
		} else {
			path := report.ScreenshotPath(r.cfg.OutputDir, testName, r.cfg.Device.ID, time.Now())
			if name := r.writeArtifact(path, png); name != "" {
				attachments = append(attachments, core.NewScreenshotAttachment(name, png))
			}
		}
	}

	if r.cfg.Artifacts.UIHierarchy {
		if xml, err := session.Client.Source(); err != nil {
			r.log.Warn().Err(err).Msg("hierarchy capture failed")
		} else {
			path := report.HierarchyPath(r.cfg.OutputDir, testName, r.cfg.Device.ID, time.Now())
			if name := r.writeArtifact(path, xml); name != "" {
				attachments = append(attachments, core.NewHierarchyAttachment(name, xml))
			}
		}
	}

	return attachments
}

// writeArtifact writes a capture to disk and returns its file name.
func (r *DeviceRunner) writeArtifact(path string, data []byte) string {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ""
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("artifact write failed")
		return ""
	}
	return filepath.Base(path)
}
