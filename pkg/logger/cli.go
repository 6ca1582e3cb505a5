package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// ForCLI builds the logger used by askstream commands. Records go to stderr
// through the pretty handler, without timestamps, so stdout stays reserved
// for answers. debug only lowers the console level. When logFile is set, every
// record down to debug is also appended to it as JSON. The returned func
// closes the log file.
func ForCLI(debug bool, logFile string) (*slog.Logger, func() error, error) {
	console := New(WithDebug(debug), WithPretty(true), WithTimestamp(false), WithWriter(os.Stderr))
	if logFile == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := New(WithLevel(slog.LevelDebug), WithJSON(true), WithWriter(f))
	return Multi(console, file), f.Close, nil
}
