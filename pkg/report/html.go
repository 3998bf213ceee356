package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// WriteCombinedHTML renders the merged report to a self-contained HTML file.
func WriteCombinedHTML(path string, combined *Combined) error {
	data := htmlData{
		Title:       fmt.Sprintf("Run %s", combined.RunID),
		GeneratedAt: combined.GeneratedAt.Format("2006-01-02 15:04:05"),
		RunID:       combined.RunID,
		Summary:     combined.Summary,
		PassRate:    passRate(combined.Summary),
		Devices:     buildDeviceSections(combined.Devices),
	}
	return renderToFile(path, data)
}

// WriteDeviceHTML renders a single device's result to an HTML file.
func WriteDeviceHTML(path string, result *DeviceResult) error {
	data := htmlData{
		Title:       fmt.Sprintf("Device %s", result.Device.ID),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		RunID:       result.RunID,
		Summary:     result.Summary,
		PassRate:    passRate(result.Summary),
		Devices:     buildDeviceSections([]DeviceResult{*result}),
	}
	return renderToFile(path, data)
}

type htmlData struct {
	Title       string
	GeneratedAt string
	RunID       string
	Summary     Summary
	PassRate    float64
	Devices     []deviceSection
}

type deviceSection struct {
	DeviceResult
	StatusClass string
	DurationStr string
	Tests       []testRow
}

type testRow struct {
	TestResult
	StatusClass string
	DurationStr string
}

func buildDeviceSections(devices []DeviceResult) []deviceSection {
	sections := make([]deviceSection, len(devices))
	for i, d := range devices {
		tests := make([]testRow, len(d.Results))
		for j, r := range d.Results {
			tests[j] = testRow{
				TestResult:  r,
				StatusClass: string(r.Status),
				DurationStr: formatDuration(r.DurationMs),
			}
		}
		sections[i] = deviceSection{
			DeviceResult: d,
			StatusClass:  string(d.Status),
			DurationStr:  formatDuration(d.DurationMs),
			Tests:        tests,
		}
	}
	return sections
}

func passRate(s Summary) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

func renderToFile(path string, data htmlData) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	html, err := renderHTML(data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return os.WriteFile(path, []byte(html), 0o644)
}

func renderHTML(data htmlData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f9fafb;
            --text-primary: #000000;
            --text-secondary: rgb(75, 85, 99);
            --text-muted: rgb(107, 114, 128);
            --border-color: #e5e7eb;
            --passed: #22c55e;
            --failed: #ef4444;
            --errored: #f97316;
            --skipped: #eab308;
            --accent: #06b6d4;
        }

        * { box-sizing: border-box; margin: 0; padding: 0; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.5;
            padding: 24px;
            max-width: 1100px;
            margin: 0 auto;
        }

        .header {
            display: flex;
            align-items: baseline;
            justify-content: space-between;
            border-bottom: 1px solid var(--border-color);
            padding-bottom: 16px;
            margin-bottom: 16px;
        }

        .header h1 { font-size: 20px; font-weight: 600; }
        .header .meta { font-size: 12px; color: var(--text-secondary); }

        .summary {
            display: flex;
            gap: 16px;
            margin-bottom: 24px;
            flex-wrap: wrap;
        }

        .stat {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 12px 20px;
            min-width: 96px;
        }

        .stat .value { font-size: 22px; font-weight: 600; }
        .stat .label { font-size: 11px; color: var(--text-muted); text-transform: uppercase; }
        .stat.passed .value { color: var(--passed); }
        .stat.failed .value { color: var(--failed); }
        .stat.errored .value { color: var(--errored); }

        .device {
            border: 1px solid var(--border-color);
            border-radius: 8px;
            margin-bottom: 20px;
            overflow: hidden;
        }

        .device-header {
            display: flex;
            align-items: center;
            gap: 10px;
            padding: 12px 16px;
            background: var(--bg-secondary);
            border-bottom: 1px solid var(--border-color);
        }

        .status-dot {
            width: 10px;
            height: 10px;
            border-radius: 50%;
            flex-shrink: 0;
        }

        .status-dot.passed { background: var(--passed); }
        .status-dot.failed { background: var(--failed); }
        .status-dot.errored { background: var(--errored); }
        .status-dot.skipped { background: var(--skipped); }

        .device-name { font-size: 15px; font-weight: 600; flex: 1; }
        .device-meta { font-size: 12px; color: var(--text-muted); }

        .device-error {
            padding: 10px 16px;
            background: rgba(239, 68, 68, 0.08);
            color: var(--failed);
            font-size: 13px;
            border-bottom: 1px solid var(--border-color);
        }

        table { width: 100%; border-collapse: collapse; font-size: 13px; }

        th {
            text-align: left;
            padding: 8px 16px;
            font-size: 11px;
            color: var(--text-muted);
            text-transform: uppercase;
            border-bottom: 1px solid var(--border-color);
        }

        td {
            padding: 8px 16px;
            border-bottom: 1px solid var(--border-color);
            vertical-align: top;
        }

        tr:last-child td { border-bottom: none; }

        .test-status { font-weight: 500; }
        .test-status.passed { color: var(--passed); }
        .test-status.failed { color: var(--failed); }
        .test-status.errored { color: var(--errored); }
        .test-status.skipped { color: var(--skipped); }

        .flaky-badge {
            display: inline-block;
            margin-left: 6px;
            padding: 1px 6px;
            border-radius: 8px;
            background: rgba(234, 179, 8, 0.15);
            color: var(--skipped);
            font-size: 11px;
        }

        .test-error {
            color: var(--text-secondary);
            font-size: 12px;
            white-space: pre-wrap;
        }

        .screenshot-link { color: var(--accent); font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <div class="meta">Generated {{.GeneratedAt}} &middot; run {{.RunID}}</div>
    </div>

    <div class="summary">
        <div class="stat"><div class="value">{{.Summary.Total}}</div><div class="label">Total</div></div>
        <div class="stat passed"><div class="value">{{.Summary.Passed}}</div><div class="label">Passed</div></div>
        <div class="stat failed"><div class="value">{{.Summary.Failed}}</div><div class="label">Failed</div></div>
        <div class="stat errored"><div class="value">{{.Summary.Errored}}</div><div class="label">Errored</div></div>
        <div class="stat"><div class="value">{{.Summary.Flaky}}</div><div class="label">Flaky</div></div>
        <div class="stat"><div class="value">{{printf "%.0f" .PassRate}}%</div><div class="label">Pass rate</div></div>
    </div>

    {{range .Devices}}
    <div class="device">
        <div class="device-header">
            <span class="status-dot {{.StatusClass}}"></span>
            <span class="device-name">{{.Device.ID}}</span>
            <span class="device-meta">{{.Device.Serial}}{{if .Device.Model}} &middot; {{.Device.Model}}{{end}}{{if .App.Package}} &middot; {{.App.Package}}{{end}} &middot; {{.DurationStr}}</span>
        </div>
        {{if .Error}}<div class="device-error">{{.Error}}</div>{{end}}
        <table>
            <tr><th>Test</th><th>Status</th><th>Duration</th><th>Attempts</th><th>Detail</th></tr>
            {{range .Tests}}
            <tr>
                <td>{{.Name}}</td>
                <td><span class="test-status {{.StatusClass}}">{{.Status}}</span>{{if .Flaky}}<span class="flaky-badge">flaky</span>{{end}}</td>
                <td>{{.DurationStr}}</td>
                <td>{{.Attempts}}</td>
                <td>
                    {{if .Error}}<div class="test-error">{{.Error}}</div>{{end}}
                    {{if .Screenshot}}<a class="screenshot-link" href="{{.Screenshot}}">screenshot</a>{{end}}
                    {{if .Hierarchy}}<a class="screenshot-link" href="{{.Hierarchy}}">hierarchy</a>{{end}}
                </td>
            </tr>
            {{end}}
        </table>
    </div>
    {{end}}
</body>
</html>
`
