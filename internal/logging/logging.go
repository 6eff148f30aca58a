// Package logging sets up each stage's log file, mirroring the Python
// original's initial()/create_log_file: one timestamped file per stage
// under <cwd>/logs, plus console output for operator visibility.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New creates <root>/logs (if needed) and returns a logger for stage
// that writes structured JSON lines to <root>/logs/<stage>_<ISO8601>.log
// and human-readable lines to stderr. Every line carries a run_id unique
// to this process invocation, so log lines from concurrent or restarted
// workers of the same stage can be told apart. The returned close func
// must be called before the process exits to flush and close the log
// file.
func New(root, stage string) (logger zerolog.Logger, logPath string, close func() error, err error) {
	logsDir := filepath.Join(root, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zerolog.Logger{}, "", nil, fmt.Errorf("create logs dir: %w", err)
	}

	logPath = filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", stage, time.Now().Format("2006-01-02T15-04-05")))
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return zerolog.Logger{}, "", nil, fmt.Errorf("open log file: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	multi := io.MultiWriter(f, console)

	logger = zerolog.New(multi).With().Timestamp().Str("stage", stage).Str("run_id", uuid.NewString()).Logger()

	fmt.Printf("log file is created....\n%s\n", logPath)

	return logger, logPath, f.Close, nil
}

// ResetLogs deletes every file under <root>/logs, mirroring spider.py's
// reset() behavior when --reset is passed.
func ResetLogs(root string) error {
	logsDir := filepath.Join(root, "logs")
	entries, err := os.ReadDir(logsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(logsDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
