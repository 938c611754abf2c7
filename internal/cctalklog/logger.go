// Package cctalklog provides the driver's logging seam: a trait-object
// Logger passed down at construction, per the design note that the
// original's process-wide debug facility is not part of the core.
package cctalklog

import (
	"log"
	"os"
)

// Logger is the only logging surface the core depends on.
type Logger interface {
	Logf(format string, args ...any)
}

// Standard wraps the standard library's log.Logger.
type Standard struct {
	l *log.Logger
}

// New returns a Logger writing to stderr with the given prefix.
func New(prefix string) *Standard {
	return &Standard{l: log.New(os.Stderr, prefix, log.LstdFlags)}
}

func (s *Standard) Logf(format string, args ...any) {
	s.l.Printf(format, args...)
}

// Discard drops every message. Useful in tests that don't assert on log output.
type Discard struct{}

func (Discard) Logf(string, ...any) {}
