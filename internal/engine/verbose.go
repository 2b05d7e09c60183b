package engine

import (
	"fmt"
	"io"
)

// VerboseLogger writes "verbose: " prefixed lines when enabled. A nil or
// disabled logger drops everything, so callers never need to check.
type VerboseLogger struct {
	w       io.Writer
	enabled bool
}

// NewVerboseLogger creates a VerboseLogger writing to w when enabled is true.
func NewVerboseLogger(w io.Writer, enabled bool) *VerboseLogger {
	return &VerboseLogger{w: w, enabled: enabled}
}

// Enabled reports whether messages are written.
func (v *VerboseLogger) Enabled() bool {
	return v != nil && v.enabled && v.w != nil
}

// Log writes msg on its own line.
func (v *VerboseLogger) Log(msg string) {
	if !v.Enabled() {
		return
	}
	fmt.Fprintf(v.w, "verbose: %s\n", msg)
}

// Logf formats and writes a message on its own line.
func (v *VerboseLogger) Logf(format string, args ...any) {
	if !v.Enabled() {
		return
	}
	fmt.Fprintf(v.w, "verbose: "+format+"\n", args...)
}
