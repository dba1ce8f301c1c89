// Package debuglog appends diagnostic lines to a file when enabled. The viewer
// owns the terminal, so nothing here ever writes to stdout or stderr.
package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const defaultPath = "advfind.log"

// Logger writes timestamped lines to path. The zero value and a nil *Logger
// are disabled.
type Logger struct {
	mu      sync.Mutex
	path    string
	enabled bool
	now     func() time.Time
}

// New returns a logger writing to path; an empty path disables it.
func New(path string) *Logger {
	return &Logger{path: path, enabled: path != "", now: time.Now}
}

// FromEnv enables logging to advfind.log when ADVFIND_DEBUG=1. An explicit
// path wins over the environment.
func FromEnv(path string) *Logger {
	if path != "" {
		return New(path)
	}
	if os.Getenv("ADVFIND_DEBUG") == "1" {
		return New(defaultPath)
	}
	return New("")
}

// Enabled reports whether Printf writes anything.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Printf appends one line. Errors opening or writing the file are dropped.
func (l *Logger) Printf(format string, args ...interface{}) {
	if !l.Enabled() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	timestamp := now().Format(time.RFC3339Nano)
	_, _ = fmt.Fprintf(f, "%s "+format+"\n", append([]interface{}{timestamp}, args...)...)
	_ = f.Close()
}
