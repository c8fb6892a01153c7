package collab

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// ErrorLog implements engine.ErrorSink by appending one CSV line per
// framing error to a daily-rotating log file, the same daily-file
// rotation idiom used for packet logs elsewhere.
type ErrorLog struct {
	mu      sync.Mutex
	dir     string
	pattern string
	fp      *os.File
	name    string
	log     *log.Logger
}

// NewErrorLog creates an ErrorLog writing daily files under dir, named
// per the strftime pattern (defaulting to "pario32-error-%Y-%m-%d.csv").
func NewErrorLog(dir, pattern string) (*ErrorLog, error) {
	if pattern == "" {
		pattern = "pario32-error-%Y-%m-%d.csv"
	}
	if _, err := strftime.Format(pattern, time.Now()); err != nil {
		return nil, fmt.Errorf("collab: bad error log pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("collab: creating %s: %w", dir, err)
	}
	return &ErrorLog{
		dir:     dir,
		pattern: pattern,
		log:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "pario32"}),
	}, nil
}

// PushError implements engine.ErrorSink.
func (e *ErrorLog) PushError(channel int, code byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	name, err := strftime.Format(e.pattern, now)
	if err != nil {
		e.log.Error("format error log name", "err", err)
		return
	}

	if e.fp != nil && name != e.name {
		e.closeLocked()
	}
	if e.fp == nil {
		full := filepath.Join(e.dir, name)
		existed := fileExists(full)

		f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
		if err != nil {
			e.log.Error("open error log", "file", full, "err", err)
			return
		}
		e.fp = f
		e.name = name
		if !existed {
			fmt.Fprintln(e.fp, "utime,isotime,channel,code")
		}
	}

	fmt.Fprintf(e.fp, "%d,%s,%d,0x%02X\n", now.Unix(), now.Format(time.RFC3339), channel, code)
	e.log.Warn("framing error", "channel", channel, "code", code)
}

// Close flushes and closes the currently open log file, if any.
func (e *ErrorLog) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeLocked()
}

func (e *ErrorLog) closeLocked() error {
	if e.fp == nil {
		return nil
	}
	err := e.fp.Close()
	e.fp = nil
	e.name = ""
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
