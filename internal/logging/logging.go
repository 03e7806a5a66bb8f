// Package logging opens the file-backed diagnostics logger. The TUI
// owns the terminal, so log output goes to a file instead of stderr.
package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

type FileLogger struct {
	Logger *log.Logger
	file   *os.File
}

func Open(path string) (*FileLogger, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.New(file)
	logger.SetFormatter(log.LogfmtFormatter)
	logger.SetReportTimestamp(true)
	return &FileLogger{Logger: logger, file: file}, nil
}

func (l *FileLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
