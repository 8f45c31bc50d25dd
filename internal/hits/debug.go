package hits

import (
	"io"
	"log"
	"sync"
)

var (
	logMu     sync.RWMutex
	opsLogger *log.Logger
)

// SetLogWriters configures the logging streams for the hits package.
// Only the ops stream is used here; diag and trace are accepted so every
// package in the module shares the same signature. Pass nil to disable.
func SetLogWriters(ops, diag, trace io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	opsLogger = newLogger("[hits] ", ops)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

// opsf logs to the ops stream (actionable warnings, errors).
func opsf(format string, args ...interface{}) {
	logMu.RLock()
	l := opsLogger
	logMu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
