package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleDevice(id string, results ...TestResult) DeviceResult {
	d := DeviceResult{
		RunID:      "run-1",
		Device:     DeviceInfo{ID: id, Serial: "serial-" + id},
		App:        AppInfo{Package: "com.swaglabsmobileapp"},
		StartTime:  time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		DurationMs: 60000,
		Results:    results,
	}
	d.Finalize()
	return d
}

func TestSummary_Count(t *testing.T) {
	var s Summary
	s.Count(TestResult{Status: StatusPassed})
	s.Count(TestResult{Status: StatusPassed, Flaky: true})
	s.Count(TestResult{Status: StatusFailed})
	s.Count(TestResult{Status: StatusErrored})
	s.Count(TestResult{Status: StatusSkipped})

	if s.Total != 5 || s.Passed != 2 || s.Failed != 1 || s.Errored != 1 || s.Skipped != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Flaky != 1 {
		t.Errorf("expected 1 flaky, got %d", s.Flaky)
	}
}

func TestDeviceResult_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		results []TestResult
		err     string
		want    Status
	}{
		{"all passed", []TestResult{{Status: StatusPassed}}, "", StatusPassed},
		{"one failed", []TestResult{{Status: StatusPassed}, {Status: StatusFailed}}, "", StatusFailed},
		{"one errored", []TestResult{{Status: StatusFailed}, {Status: StatusErrored}}, "", StatusErrored},
		{"process error wins", []TestResult{{Status: StatusPassed}}, "device unreachable", StatusErrored},
		{"empty run passes", nil, "", StatusPassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DeviceResult{Results: tt.results, Error: tt.err}
			d.Finalize()
			if d.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, d.Status)
			}
			if d.Summary.Total != len(tt.results) {
				t.Errorf("expected total %d, got %d", len(tt.results), d.Summary.Total)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"login/valid_credentials", "login_valid_credentials"},
		{"pixel_6", "pixel_6"},
		{"has spaces & chars!", "has_spaces_chars_"},
		{"dots.kept-dashes", "dots.kept-dashes"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	ts := time.Date(2026, 8, 27, 10, 30, 45, 0, time.UTC)

	if got := DeviceResultPath("out", "pixel_6", ts); got != filepath.Join("out", "result_pixel_6_20260827_103045.json") {
		t.Errorf("unexpected result path %s", got)
	}
	if got := ScreenshotPath("out", "login/valid_credentials", "pixel_6", ts); got != filepath.Join("out", "login_valid_credentials_pixel_6_20260827_103045.png") {
		t.Errorf("unexpected screenshot path %s", got)
	}
	if got := CombinedHTMLPath("out", ts); got != filepath.Join("out", "report_20260827_103045.html") {
		t.Errorf("unexpected combined path %s", got)
	}
}

func TestWriteReadDeviceResult_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := sampleDevice("pixel_6",
		TestResult{Name: "login/valid_credentials", Status: StatusPassed, Attempts: 1},
		TestResult{Name: "login/invalid_password", Status: StatusFailed, Attempts: 2, Error: "text mismatch"},
	)

	path := DeviceResultPath(dir, d.Device.ID, d.StartTime)
	if err := WriteDeviceResult(path, &d); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := ReadDeviceResult(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Device.ID != "pixel_6" || len(got.Results) != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.Status != StatusFailed {
		t.Errorf("expected failed, got %s", got.Status)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteDeviceResult_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "run")
	d := sampleDevice("pixel_6")

	path := DeviceResultPath(dir, d.Device.ID, d.StartTime)
	if err := WriteDeviceResult(path, &d); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestMerge_TotalsAndOrder(t *testing.T) {
	d1 := sampleDevice("galaxy_s21",
		TestResult{Name: "a", Status: StatusPassed},
		TestResult{Name: "b", Status: StatusFailed},
	)
	d2 := sampleDevice("pixel_6",
		TestResult{Name: "a", Status: StatusPassed, Flaky: true},
		TestResult{Name: "b", Status: StatusErrored},
	)

	combined := Merge("run-1", []DeviceResult{d2, d1})

	if len(combined.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(combined.Devices))
	}
	if combined.Devices[0].Device.ID != "galaxy_s21" {
		t.Errorf("expected devices sorted by ID, got %s first", combined.Devices[0].Device.ID)
	}

	want := Summary{Total: 4, Passed: 2, Failed: 1, Errored: 1, Flaky: 1}
	if combined.Summary != want {
		t.Errorf("expected summary %+v, got %+v", want, combined.Summary)
	}
	if combined.Passed() {
		t.Error("expected run not passed")
	}
}

func TestMergeDir(t *testing.T) {
	dir := t.TempDir()
	ts := time.Now()

	d1 := sampleDevice("pixel_6", TestResult{Name: "a", Status: StatusPassed})
	d2 := sampleDevice("galaxy_s21", TestResult{Name: "a", Status: StatusPassed})
	if err := WriteDeviceResult(DeviceResultPath(dir, "pixel_6", ts), &d1); err != nil {
		t.Fatal(err)
	}
	if err := WriteDeviceResult(DeviceResultPath(dir, "galaxy_s21", ts), &d2); err != nil {
		t.Fatal(err)
	}

	combined, err := MergeDir(dir, "")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if combined.RunID != "run-1" {
		t.Errorf("expected run ID from artifacts, got %q", combined.RunID)
	}
	if combined.Summary.Total != 2 {
		t.Errorf("expected 2 tests, got %d", combined.Summary.Total)
	}
	if !combined.Passed() {
		t.Error("expected run passed")
	}
}

func TestMergeDir_Empty(t *testing.T) {
	if _, err := MergeDir(t.TempDir(), ""); err == nil {
		t.Error("expected error for empty run directory")
	}
}

func TestWriteCombinedHTML(t *testing.T) {
	dir := t.TempDir()
	d := sampleDevice("pixel_6",
		TestResult{Name: "login/valid_credentials", Status: StatusPassed, Attempts: 2, Flaky: true},
		TestResult{Name: "login/invalid_password", Status: StatusFailed, Attempts: 2,
			Error: "unexpected login error text", Screenshot: "login_invalid_password_pixel_6_20260827_103045.png"},
	)
	combined := Merge("run-1", []DeviceResult{d})

	path := filepath.Join(dir, "report.html")
	if err := WriteCombinedHTML(path, combined); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	for _, want := range []string{
		"pixel_6",
		"login/valid_credentials",
		"flaky",
		"unexpected login error text",
		"login_invalid_password_pixel_6_20260827_103045.png",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestWriteDeviceHTML(t *testing.T) {
	dir := t.TempDir()
	d := sampleDevice("pixel_6", TestResult{Name: "a", Status: StatusPassed})
	d.Error = ""

	path := DeviceHTMLPath(dir, d.Device.ID, d.StartTime)
	if err := WriteDeviceHTML(path, &d); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Device pixel_6") {
		t.Error("html missing device title")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{250, "250ms"},
		{1500, "1.5s"},
		{90000, "1m 30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
