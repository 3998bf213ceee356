package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// timestampLayout is used in artifact file names. It sorts lexically.
const timestampLayout = "20060102_150405"

// Timestamp formats a time for use in artifact file names.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeName makes a test or device name safe for file names.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// DeviceResultPath returns the JSON artifact path for a device run.
func DeviceResultPath(dir, deviceID string, t time.Time) string {
	name := fmt.Sprintf("result_%s_%s.json", SanitizeName(deviceID), Timestamp(t))
	return filepath.Join(dir, name)
}

// DeviceHTMLPath returns the per-device HTML artifact path.
func DeviceHTMLPath(dir, deviceID string, t time.Time) string {
	name := fmt.Sprintf("result_%s_%s.html", SanitizeName(deviceID), Timestamp(t))
	return filepath.Join(dir, name)
}

// CombinedHTMLPath returns the merged HTML report path.
func CombinedHTMLPath(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("report_%s.html", Timestamp(t)))
}

// CombinedJSONPath returns the merged JSON report path.
func CombinedJSONPath(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("report_%s.json", Timestamp(t)))
}

// ScreenshotPath returns the failure screenshot path for a test on a device.
func ScreenshotPath(dir, testName, deviceID string, t time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.png",
		SanitizeName(testName), SanitizeName(deviceID), Timestamp(t))
	return filepath.Join(dir, name)
}

// HierarchyPath returns the UI hierarchy dump path for a test on a device.
func HierarchyPath(dir, testName, deviceID string, t time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.xml",
		SanitizeName(testName), SanitizeName(deviceID), Timestamp(t))
	return filepath.Join(dir, name)
}

// WriteDeviceResult writes the per-device JSON artifact atomically.
func WriteDeviceResult(path string, result *DeviceResult) error {
	return atomicWriteJSON(path, result)
}

// ReadDeviceResult loads a per-device JSON artifact.
func ReadDeviceResult(path string) (*DeviceResult, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- artifact path built by this package
	if err != nil {
		return nil, err
	}
	var result DeviceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &result, nil
}

// WriteCombined writes the merged JSON report atomically.
func WriteCombined(path string, combined *Combined) error {
	return atomicWriteJSON(path, combined)
}

// atomicWriteJSON marshals v and renames a temp file into place so readers
// never observe a partially written artifact.
func atomicWriteJSON(path string, v interface{}) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ensureDir creates the directory if needed.
func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
