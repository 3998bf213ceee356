// Package logger configures the global zerolog logger for the harness.
//
// Console output goes to stderr in human-readable form; when a log file is
// configured, the same events are also written as JSON to a size-rotated
// file so long device runs do not fill the disk.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
type Options struct {
	Verbose bool   // Enable debug level
	NoColor bool   // Disable ANSI colors on the console
	LogFile string // Optional path for the JSON run log
}

// Init configures the global logger. Safe to call more than once; the last
// call wins. Child processes call this with their own per-device log file.
func Init(opts Options) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    opts.NoColor,
		TimeFormat: "15:04:05",
	}

	var w io.Writer = console
	if opts.LogFile != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
		})
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// WithDevice returns a logger annotated with the device ID. Every log line
// of a device run carries the ID so interleaved parent/child output stays
// attributable.
func WithDevice(deviceID string) zerolog.Logger {
	return log.With().Str("device", deviceID).Logger()
}
