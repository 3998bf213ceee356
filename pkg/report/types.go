// Package report defines the result artifacts a run produces: one JSON and
// HTML file per device process, merged afterwards into a combined report.
// Files are named with device ID and run timestamp so concurrent device
// processes never collide.
package report

import "time"

// Status classifies a test or device outcome.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"  // assertion did not hold
	StatusErrored Status = "errored" // infrastructure prevented a verdict
	StatusSkipped Status = "skipped"
)

// Summary holds aggregate counts over a set of test results.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
	Flaky   int `json:"flaky"`
}

// Add accumulates another summary into this one.
func (s *Summary) Add(other Summary) {
	s.Total += other.Total
	s.Passed += other.Passed
	s.Failed += other.Failed
	s.Errored += other.Errored
	s.Skipped += other.Skipped
	s.Flaky += other.Flaky
}

// Count registers a single test result.
func (s *Summary) Count(r TestResult) {
	s.Total++
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusErrored:
		s.Errored++
	case StatusSkipped:
		s.Skipped++
	}
	if r.Flaky {
		s.Flaky++
	}
}

// TestResult records one test case execution on one device.
type TestResult struct {
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	DurationMs int64     `json:"duration_ms"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	Category   string    `json:"category,omitempty"`
	Attempts   int       `json:"attempts"`
	Flaky      bool      `json:"flaky,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	Hierarchy  string    `json:"hierarchy,omitempty"`
}

// DeviceInfo identifies the device a result came from.
type DeviceInfo struct {
	ID              string `json:"id"`
	Serial          string `json:"serial"`
	PlatformVersion string `json:"platform_version,omitempty"`
	Model           string `json:"model,omitempty"`
}

// AppInfo identifies the application under test.
type AppInfo struct {
	Package  string `json:"package,omitempty"`
	Activity string `json:"activity,omitempty"`
}

// DeviceResult is the artifact one device process writes: every test result
// for that device plus run metadata. Error is set when the process failed
// before or between tests (device unreachable, server never came up).
type DeviceResult struct {
	RunID      string       `json:"run_id"`
	Device     DeviceInfo   `json:"device"`
	App        AppInfo      `json:"app"`
	StartTime  time.Time    `json:"start_time"`
	DurationMs int64        `json:"duration_ms"`
	Status     Status       `json:"status"`
	Error      string       `json:"error,omitempty"`
	Results    []TestResult `json:"results"`
	Summary    Summary      `json:"summary"`
}

// Finalize computes the summary and overall status from the results.
// A process-level error forces errored regardless of individual results.
func (d *DeviceResult) Finalize() {
	d.Summary = Summary{}
	for _, r := range d.Results {
		d.Summary.Count(r)
	}

	switch {
	case d.Error != "":
		d.Status = StatusErrored
	case d.Summary.Errored > 0:
		d.Status = StatusErrored
	case d.Summary.Failed > 0:
		d.Status = StatusFailed
	default:
		d.Status = StatusPassed
	}
}

// Combined is the merged view over every device in a run.
type Combined struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Devices     []DeviceResult `json:"devices"`
	Summary     Summary        `json:"summary"`
}

// Passed reports whether the whole run succeeded.
func (c *Combined) Passed() bool {
	for _, d := range c.Devices {
		if d.Status != StatusPassed {
			return false
		}
	}
	return true
}
