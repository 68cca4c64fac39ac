// Package utils holds small shared helpers: the file-backed panel logger.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped lines to a log file, falling back to stdout
// when the file cannot be opened.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// NewLogger opens the given log file for appending. An empty path or an
// open failure yields a stdout-only logger.
func NewLogger(logFile string) *Logger {
	l := &Logger{}
	if logFile == "" {
		return l
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable (%s): %v\n", logFile, err)
		return l
	}
	l.file = f
	return l
}

// Write appends a timestamped message.
func (l *Logger) Write(message string) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("%s: %s\n", time.Now().Format("2006-01-02 15:04:05"), message)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.WriteString(line)
		return
	}
	fmt.Print(line)
}

// Writef formats and appends a timestamped message.
func (l *Logger) Writef(format string, args ...interface{}) {
	l.Write(fmt.Sprintf(format, args...))
}

// Close flushes and closes the underlying file handle.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
