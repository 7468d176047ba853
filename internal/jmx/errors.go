package jmx

import "fmt"

// ParseError is fatal: the document could not be read or decoded at all.
// Everything past that point degrades to warnings instead.
type ParseError struct {
	Msg     string
	Details string
}

func (e *ParseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Msg, e.Details)
	}
	return e.Msg
}

// Diagnostics accumulates warnings and errors for one parse run. A fresh
// instance is created per Parse call and threaded through the extraction,
// so parser instances carry no ambient cross-run state.
type Diagnostics struct {
	Warnings []string
	Errors   []string
}

func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Warn(msgs ...string) {
	d.Warnings = append(d.Warnings, msgs...)
}
