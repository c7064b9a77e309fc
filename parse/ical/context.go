package ical

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem met while reading.
type Warning struct {
	LineNum  int
	Property string
	Err      error
}

func (w Warning) String() string {
	if w.LineNum > 0 {
		return fmt.Sprintf("line %d: %s: %v", w.LineNum, w.Property, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Property, w.Err)
}

// Context is created per read or write pass and handed to every scribe.
type Context struct {
	Version   Version
	Timezones TimezoneRegistry
	// Parent is the component the current property belongs to.
	Parent *Component

	warnings []Warning
}

func NewContext(v Version, tz TimezoneRegistry) *Context {
	return &Context{Version: v, Timezones: tz}
}

// TimezoneFor is a nil-safe lookup in the timezone registry.
func (c *Context) TimezoneFor(p Property) (*Component, bool) {
	if c == nil || c.Timezones == nil {
		return nil, false
	}
	return c.Timezones.TimezoneFor(p)
}

func (c *Context) Warn(w Warning) {
	c.warnings = append(c.warnings, w)
}

func (c *Context) Warnings() []Warning {
	return append([]Warning(nil), c.warnings...)
}

func (c *Context) ResetWarnings() {
	c.warnings = nil
}

// Observer receives codec events; the metrics package implements it.
type Observer interface {
	PropertyRead(name string)
	PropertyWritten(name string)
	PropertySkipped(name string, reason string)
	ComponentConverted(from, to string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) PropertyRead(string) {}
func (NopObserver) PropertyWritten(string) {}
func (NopObserver) PropertySkipped(string, string) {}
func (NopObserver) ComponentConverted(string, string) {}

// ParseErrorPolicy decides what a reader does with a property whose value
// cannot be parsed.
type ParseErrorPolicy int

const (
	// ParseErrorSkip drops the property and records a warning.
	ParseErrorSkip ParseErrorPolicy = iota
	// ParseErrorFail aborts the read with the error.
	ParseErrorFail
	// ParseErrorRaw keeps the property as a raw property and records a warning.
	ParseErrorRaw
)

// ParseParseErrorPolicy resolves "skip", "fail" or "raw".
func ParseParseErrorPolicy(s string) (ParseErrorPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip", "":
		return ParseErrorSkip, true
	case "fail":
		return ParseErrorFail, true
	case "raw":
		return ParseErrorRaw, true
	default:
		return ParseErrorSkip, false
	}
}

func (p ParseErrorPolicy) String() string {
	switch p {
	case ParseErrorFail:
		return "fail"
	case ParseErrorRaw:
		return "raw"
	default:
		return "skip"
	}
}
