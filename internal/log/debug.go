// Package log provides the file-backed debug log used to trace fossil
// invocations. Messages are buffered in memory until a destination is chosen,
// so early invocations are not lost when --debug-log is set from config.
package log

import (
	"log"
	"os"
	"sync"
)

type debugSink struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	discard bool
}

var (
	sink = &debugSink{}
	// stdLogger provides timestamps on top of the sink.
	stdLogger = log.New(sink, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer for the standard logger.
func (d *debugSink) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.discard {
		return len(p), nil
	}
	if d.file != nil {
		n, err := d.file.Write(p)
		_ = d.file.Sync()
		return n, err
	}
	// The caller may reuse p, so keep a copy until a file is set.
	d.pending = append(d.pending, append([]byte(nil), p...)...)
	return len(p), nil
}

// SetFile routes debug output to path, flushing anything buffered so far.
// An empty path discards buffered and future messages.
func SetFile(path string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.file != nil {
		_ = sink.file.Close()
		sink.file = nil
	}

	if path == "" {
		sink.discard = true
		sink.pending = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		sink.discard = true
		sink.pending = nil
		return err
	}

	sink.file = f
	sink.discard = false
	if len(sink.pending) > 0 {
		_, _ = f.Write(sink.pending)
		_ = f.Sync()
		sink.pending = nil
	}
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Close closes the debug log file if open.
func Close() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.file == nil {
		return nil
	}
	err := sink.file.Close()
	sink.file = nil
	return err
}
