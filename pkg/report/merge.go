package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Merge combines per-device results into one report. Devices are sorted by
// ID so the merged report is stable regardless of process finish order.
func Merge(runID string, devices []DeviceResult) *Combined {
	sorted := make([]DeviceResult, len(devices))
	copy(sorted, devices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Device.ID < sorted[j].Device.ID
	})

	summary := lo.Reduce(sorted, func(acc Summary, d DeviceResult, _ int) Summary {
		acc.Add(d.Summary)
		return acc
	}, Summary{})

	return &Combined{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Devices:     sorted,
		Summary:     summary,
	}
}

// CollectDir loads every per-device JSON artifact in a run directory.
func CollectDir(dir string) ([]DeviceResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "result_*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no device artifacts found in %s", dir)
	}

	results := make([]DeviceResult, 0, len(paths))
	for _, path := range paths {
		result, err := ReadDeviceResult(path)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// MergeDir merges every device artifact found in a run directory. The run ID
// is taken from the first artifact when not supplied.
func MergeDir(dir, runID string) (*Combined, error) {
	devices, err := CollectDir(dir)
	if err != nil {
		return nil, err
	}
	if runID == "" {
		runID = devices[0].RunID
	}
	return Merge(runID, devices), nil
}
